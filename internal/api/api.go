// Package api assembles the API module with the pipeline runtime and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/wraith/internal/config"
	"github.com/JaimeStill/wraith/internal/infrastructure"
	"github.com/JaimeStill/wraith/pkg/middleware"
	"github.com/JaimeStill/wraith/pkg/module"
)

// NewModule creates the API module with all handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
