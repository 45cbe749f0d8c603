// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies the API module requires: lifecycle
// coordination, logging, host capabilities, and the optional journal database.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/pdf-lab/internal/capabilities"
	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/journal"
	"github.com/JaimeStill/pdf-lab/pkg/database"
	"github.com/JaimeStill/pdf-lab/pkg/lifecycle"
	"github.com/JaimeStill/pdf-lab/pkg/logging"
)

// Infrastructure holds the core systems required by the API module.
// Database is nil when the journal is disabled.
type Infrastructure struct {
	Lifecycle    *lifecycle.Coordinator
	Logger       *slog.Logger
	Capabilities capabilities.Capabilities
	Database     database.System

	logs io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger, logs, err := logging.Open(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logging init failed: %w", err)
	}

	caps := capabilities.Detect(capabilities.Options{
		ContentSniffing: cfg.Files.SniffContent(),
		OCR:             cfg.OCR.IsEnabled(),
		OCRBinary:       cfg.OCR.Binary,
	}, logger)

	infra := &Infrastructure{
		Lifecycle:    lifecycle.New(),
		Logger:       logger,
		Capabilities: caps,
		logs:         logs,
	}

	if cfg.Journal.Enabled {
		db, err := database.New(&cfg.Journal.Database, logger)
		if err != nil {
			logs.Close()
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	return infra, nil
}

// Journal returns the operation journal, or nil when it is disabled.
func (i *Infrastructure) Journal() *journal.Journal {
	if i.Database == nil {
		return nil
	}
	return journal.New(i.Database, i.Logger)
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}

		db, err := i.Database.Connection()
		if err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
		if err := journal.Migrate(db, i.Logger.With("system", "journal")); err != nil {
			return fmt.Errorf("journal migration failed: %w", err)
		}
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		i.logs.Close()
	})

	return nil
}
