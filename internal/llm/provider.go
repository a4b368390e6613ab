package llm

import "context"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string
}

// Request contains chat completion parameters
type Request struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// Response contains the completed model output
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// ChunkFunc receives incremental output while a completion streams.
// Returning an error aborts the stream.
type ChunkFunc func(chunk string) error

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat returns the full completion at once
	Chat(ctx context.Context, req Request) (*Response, error)

	// ChatStream calls onChunk for every piece of output as it arrives and
	// returns the accumulated response once the model is done
	ChatStream(ctx context.Context, req Request, onChunk ChunkFunc) (*Response, error)
}

const defaultMaxTokens = 4096

// MaxTokensOrDefault returns req.MaxTokens, or a default when unset
func (r Request) MaxTokensOrDefault() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return defaultMaxTokens
}
