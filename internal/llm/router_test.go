package llm_test

import (
	"context"
	"testing"

	"github.com/Rrens/notebooklm/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name       string
	configured bool
}

func (p *stubProvider) Name() string              { return p.name }
func (p *stubProvider) AvailableModels() []string { return []string{p.name + "-model"} }
func (p *stubProvider) DefaultModel() string      { return p.name + "-model" }
func (p *stubProvider) IsConfigured() bool        { return p.configured }

func (p *stubProvider) Chat(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: "ok", Model: req.Model}, nil
}

func (p *stubProvider) ChatStream(ctx context.Context, req llm.Request, onChunk llm.ChunkFunc) (*llm.Response, error) {
	if err := onChunk("ok"); err != nil {
		return nil, err
	}
	return &llm.Response{Content: "ok", Model: req.Model}, nil
}

func TestRouter_GetProvider(t *testing.T) {
	router := llm.NewRouter("anthropic")
	router.RegisterProvider(&stubProvider{name: "anthropic", configured: true})
	router.RegisterProvider(&stubProvider{name: "openai", configured: false})

	p, err := router.GetProvider("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	_, err = router.GetProvider("openai")
	assert.EqualError(t, err, "provider not configured: openai")

	_, err = router.GetProvider("gemini")
	assert.EqualError(t, err, "provider not found: gemini")
}

func TestRouter_ListProviders(t *testing.T) {
	router := llm.NewRouter("ollama")
	router.RegisterProvider(&stubProvider{name: "ollama", configured: true})
	router.RegisterProvider(&stubProvider{name: "anthropic", configured: true})
	router.RegisterProvider(&stubProvider{name: "openai", configured: false})

	assert.Equal(t, []string{"anthropic", "ollama"}, router.ListProviders())

	infos := router.GetProvidersInfo()
	require.Len(t, infos, 3)
	assert.Equal(t, "anthropic", infos[0].Name)
	assert.True(t, infos[1].Default)
	assert.False(t, infos[2].Configured)
}
