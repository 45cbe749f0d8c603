// Package health serves the service status and the liveness and readiness
// probes.
package health

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/JaimeStill/pdf-lab/internal/capabilities"
	"github.com/JaimeStill/pdf-lab/pkg/handlers"
	"github.com/JaimeStill/pdf-lab/pkg/lifecycle"
	"github.com/JaimeStill/pdf-lab/pkg/module"
)

// Overall status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

const pingTimeout = 2 * time.Second

// Pinger is a dependency that can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Report is the body of GET /health.
type Report struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Handler reports service health.
type Handler struct {
	version string
	caps    capabilities.Capabilities
	journal Pinger
	ready   lifecycle.ReadinessChecker
	logger  *slog.Logger
}

// NewHandler creates a health handler. A nil journal reports the journal as
// disabled.
func NewHandler(
	version string,
	caps capabilities.Capabilities,
	journal Pinger,
	ready lifecycle.ReadinessChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		version: version,
		caps:    caps,
		journal: journal,
		ready:   ready,
		logger:  logger.With("handler", "health"),
	}
}

// Register adds the health routes to router.
func (h *Handler) Register(router *module.Router) {
	router.HandleNative("GET /health", h.Health)
	router.HandleNative("GET /api/status", h.Health)
	router.HandleNative("GET /healthz", h.Live)
	router.HandleNative("GET /readyz", h.Ready)
}

// Check builds a report. The service is degraded when any check is
// unavailable or failing; disabled features do not count.
func (h *Handler) Check(ctx context.Context) Report {
	checks := map[string]string{
		"pdf_engine":     capabilities.CheckOK,
		"text_extractor": capabilities.CheckOK,
		"journal":        capabilities.CheckDisabled,
	}
	maps.Copy(checks, h.caps.Checks())

	if h.journal != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		checks["journal"] = capabilities.CheckOK
		if err := h.journal.Ping(ctx); err != nil {
			h.logger.Warn("journal ping failed", "error", err)
			checks["journal"] = capabilities.CheckError
		}
	}

	status := StatusHealthy
	for _, v := range checks {
		if v == capabilities.CheckUnavailable || v == capabilities.CheckError {
			status = StatusDegraded
			break
		}
	}

	return Report{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
}

// Health handles GET /health and GET /api/status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.Check(r.Context()))
}

// Live handles GET /healthz.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Ready handles GET /readyz.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
