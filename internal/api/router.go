package api

import (
	"net/http"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/api/handler"
	customMiddleware "github.com/Rrens/notebooklm/internal/api/middleware"
	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/Rrens/notebooklm/internal/llm"
	"github.com/Rrens/notebooklm/internal/llm/anthropic"
	"github.com/Rrens/notebooklm/internal/llm/deepseek"
	"github.com/Rrens/notebooklm/internal/llm/gemini"
	"github.com/Rrens/notebooklm/internal/llm/ollama"
	"github.com/Rrens/notebooklm/internal/llm/openai"
	"github.com/Rrens/notebooklm/internal/security"
	"github.com/Rrens/notebooklm/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the HTTP surface is built from
type Dependencies struct {
	Config    *config.Config
	Notebooks domain.NotebookRepository
	Sessions  domain.NotebookSessionRepository
	DB        handler.Pinger
	Agents    *agent.Handle
	LLM       *llm.Router
	// RateLimiter guards the run route; nil disables rate limiting
	RateLimiter customMiddleware.Limiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	notebookService := service.NewNotebookService(deps.Notebooks, deps.Sessions)
	runService := service.NewRunService(deps.Notebooks, deps.Sessions, deps.Agents)

	// Initialize handlers
	notebookHandler := handler.NewNotebookHandler(notebookService)
	runHandler := handler.NewRunHandler(runService)

	// Health check
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(deps.DB, deps.Agents))

	r.Group(func(r chi.Router) {
		if cfg.Auth.Enabled() {
			jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
			r.Use(customMiddleware.NewAuthMiddleware(jwtManager).Authenticate)
		}

		r.Get("/config", handler.RuntimeConfig(cfg, deps.Agents, deps.LLM))

		r.Route("/notebooks", func(r chi.Router) {
			r.Get("/", notebookHandler.List)
			r.Post("/", notebookHandler.Create)

			r.Route("/{notebookID}", func(r chi.Router) {
				r.Get("/", notebookHandler.Get)
				r.Put("/", notebookHandler.Update)
				r.Patch("/", notebookHandler.Update)
				r.Delete("/", notebookHandler.Delete)
				r.Get("/sessions", notebookHandler.ListSessions)

				r.Group(func(r chi.Router) {
					if deps.RateLimiter != nil {
						r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
					}
					r.Post("/run", runHandler.Run)
				})
			})
		})
	})

	return r
}

// NewLLMRouter registers every configured model provider
func NewLLMRouter(cfg *config.Config) *llm.Router {
	llmRouter := llm.NewRouter(cfg.Agent.Provider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.Agent.Provider)

	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, cfg.LLM.OpenAI.BaseURL))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model, cfg.LLM.Anthropic.BaseURL))
	}
	if cfg.LLM.DeepSeek.APIKey != "" {
		llmRouter.RegisterProvider(deepseek.NewProvider(cfg.LLM.DeepSeek.APIKey, cfg.LLM.DeepSeek.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		log.Info().Msg("Registering Gemini provider")
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}

	return llmRouter
}

// NewRuntime builds the agent runtime serving the NotebookLM team on the
// configured provider
func NewRuntime(cfg *config.Config, llmRouter *llm.Router, history agent.HistoryStore) (*agent.Runtime, error) {
	provider, err := llmRouter.GetProvider(cfg.Agent.Provider)
	if err != nil {
		return nil, err
	}

	model := cfg.Agent.Model
	if model == "" {
		model = provider.DefaultModel()
	}

	runner := agent.NewTeamRunner(agent.NotebookLMTeam(), provider, model, history)
	log.Info().
		Str("team", agent.NotebookLMTeamID).
		Str("provider", provider.Name()).
		Str("model", model).
		Msg("agent team ready")

	return agent.NewRuntime(cfg.Agent.Name, cfg.Agent.ID, runner), nil
}
