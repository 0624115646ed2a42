package main

import (
	"net/http"

	"github.com/fra-atlas/atlas/internal/api"
	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
	"github.com/fra-atlas/atlas/pkg/handlers"
	"github.com/fra-atlas/atlas/pkg/module"
)

// newRouter mounts the API module and the liveness and readiness probes.
func newRouter(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Router, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	router.Mount(apiModule)

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": cfg.Version,
		})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ready", http.StatusOK
		if !infra.Lifecycle.Ready() {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, code, map[string]any{
			"status":     status,
			"subsystems": infra.Lifecycle.Status(),
		})
	})

	return router, nil
}
