package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/api/response"
	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/llm"
)

// Pinger reports backend connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including database connectivity and
// whether the agent runtime is up
func ReadyCheck(db Pinger, agents *agent.Handle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}

		if !agents.Ready() {
			response.ServiceUnavailable(w, "agent runtime not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// RuntimeConfig describes the agent runtime served by this process
func RuntimeConfig(cfg *config.Config, agents *agent.Handle, llmRouter *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"name":             cfg.Agent.Name,
			"id":               cfg.Agent.ID,
			"model":            cfg.Agent.Model,
			"default_provider": llmRouter.DefaultProvider(),
			"providers":        llmRouter.GetProvidersInfo(),
			"teams":            []string{},
			"ready":            false,
		}

		if rt, err := agents.Get(); err == nil {
			data["teams"] = rt.Teams()
			data["ready"] = true
		}

		response.OK(w, data)
	}
}
