package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/pdf-lab/internal/api"
	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/health"
	"github.com/JaimeStill/pdf-lab/internal/infrastructure"
	"github.com/JaimeStill/pdf-lab/pkg/module"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	api   *api.API
	http  *httpServer
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	a, err := api.New(cfg, infra)
	if err != nil {
		return nil, fmt.Errorf("api init failed: %w", err)
	}

	if oa := cfg.API.OpenAPI; oa.WriteEnabled() {
		if err := writeSpec(oa.FilePath(cfg.Env()), a.Spec()); err != nil {
			infra.Logger.Warn("openapi spec not written", "error", err)
		}
	}

	router := buildRouter(cfg, infra, a)
	handler := buildMiddleware(cfg, infra.Logger, a.Runtime().Responder).Apply(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"base_path", cfg.API.BasePath,
		"rasterizer", infra.Capabilities.Rasterizer,
		"ocr", infra.Capabilities.OCR,
		"journal", cfg.Journal.Enabled,
	)

	return &Server{
		infra: infra,
		api:   a,
		http:  newHTTPServer(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within the provided timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func buildRouter(cfg *config.Config, infra *infrastructure.Infrastructure, a *api.API) *module.Router {
	rt := a.Runtime()
	router := module.NewRouter()

	var pinger health.Pinger
	if rt.Journal != nil {
		pinger = rt.Journal
	}

	health.NewHandler(
		cfg.Version,
		infra.Capabilities,
		pinger,
		infra.Lifecycle,
		infra.Logger,
	).Register(router)

	for _, m := range a.Modules() {
		router.Mount(m)
	}

	router.NotFound(http.HandlerFunc(rt.Responder.NotFound))
	return router
}

func rejectHost(rs *faults.Responder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.Respond(w, r, faults.Newf(faults.InvalidParameter, "host %q is not allowed", r.Host))
	})
}
