// Package api builds the /api module: the domain systems, their routes, and
// the middleware every API request passes through.
package api

import (
	"net/http"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
	"github.com/fra-atlas/atlas/pkg/middleware"
	"github.com/fra-atlas/atlas/pkg/module"
	"github.com/fra-atlas/atlas/pkg/routes"
)

// NewModule creates the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	groups := domain.Routes(runtime)
	mux := http.NewServeMux()
	routes.Register(mux, groups...)

	runtime.Logger.Info(
		"api routes registered",
		"base_path", cfg.API.BasePath,
		"groups", len(groups),
		"persistent", domain.Persistent(),
	)
	runtime.Logger.Debug("api routes", "patterns", routes.Patterns(groups...))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}
