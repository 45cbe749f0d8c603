// Package api assembles the PDF tools module: runtime, domain systems,
// routes, middleware, and the OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/infrastructure"
	"github.com/JaimeStill/pdf-lab/pkg/middleware"
	"github.com/JaimeStill/pdf-lab/pkg/module"
	"github.com/JaimeStill/pdf-lab/pkg/openapi"
)

// API is the PDF tools surface. The same handler can be mounted under more
// than one prefix.
type API struct {
	cfg     *config.Config
	runtime *Runtime
	handler http.Handler
	spec    []byte
}

// New builds the API: its runtime, domain, routes and OpenAPI document.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*API, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	cfg.API.OpenAPI.Apply(spec, cfg.Server.URL())

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return &API{
		cfg:     cfg,
		runtime: runtime,
		handler: unmatched(mux, runtime.Responder),
		spec:    specBytes,
	}, nil
}

// Spec returns the generated OpenAPI document.
func (a *API) Spec() []byte {
	return a.spec
}

// Runtime returns the API runtime.
func (a *API) Runtime() *Runtime {
	return a.runtime
}

// Module mounts the API at prefix with its middleware.
func (a *API) Module(prefix string) *module.Module {
	m := module.New(prefix, a.handler)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&a.cfg.API.CORS))
	return m
}

// Modules returns the API mounted at the base path and, when enabled, the
// legacy path.
func (a *API) Modules() []*module.Module {
	modules := []*module.Module{a.Module(a.cfg.API.BasePath)}
	if a.cfg.API.LegacyEnabled() {
		modules = append(modules, a.Module(a.cfg.API.LegacyPath))
	}
	return modules
}
