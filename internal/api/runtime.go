package api

import (
	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/infrastructure"
	"github.com/JaimeStill/pdf-lab/internal/journal"
	"github.com/JaimeStill/pdf-lab/internal/workers"
)

// Runtime extends Infrastructure with API-specific systems.
type Runtime struct {
	*infrastructure.Infrastructure
	Pool      *workers.Pool
	Journal   *journal.Journal
	Responder *faults.Responder
}

// NewRuntime creates an API runtime with a module-scoped logger. The worker
// pool stops accepting jobs when shutdown begins. Journal is nil when the
// journal is disabled.
func NewRuntime(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
) *Runtime {
	logger := infra.Logger.With("module", "api")
	pool := workers.New(cfg.Processing.WorkerCount(), logger)

	infra.Lifecycle.OnShutdown(func() {
		<-infra.Lifecycle.Context().Done()
		pool.Close()
	})

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:    infra.Lifecycle,
			Logger:       logger,
			Capabilities: infra.Capabilities,
			Database:     infra.Database,
		},
		Pool:      pool,
		Journal:   infra.Journal(),
		Responder: faults.NewResponder(logger, cfg.Debug),
	}
}

// Recorder returns the journal as a recorder, or a no-op recorder when the
// journal is disabled.
func (r *Runtime) Recorder() journal.Recorder {
	if r.Journal == nil {
		return journal.Noop{}
	}
	return r.Journal
}
