package main

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/pkg/middleware"
)

// buildMiddleware creates the global middleware stack. Module middleware
// (slash trimming, CORS) runs inside it.
func buildMiddleware(cfg *config.Config, logger *slog.Logger, rs *faults.Responder) middleware.System {
	sys := middleware.New()
	sys.Use(middleware.RequestID())
	sys.Use(middleware.Recover(logger, func(w http.ResponseWriter, r *http.Request, v any) {
		rs.Respond(w, r, faults.Newf(faults.Internal, "panic: %v", v))
	}))
	sys.Use(middleware.TrustedHosts(cfg.API.AllowedHosts, rejectHost(rs)))
	sys.Use(middleware.Logger(logger))
	if cfg.Debug {
		sys.Use(middleware.ProcessTime())
	}
	return sys
}
