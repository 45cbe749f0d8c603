// Package database manages a PostgreSQL connection pool opened through the
// pgx stdlib driver and tied to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/pdf-lab/pkg/lifecycle"
)

// ErrNotReady is returned by Connection before Start has verified the pool.
var ErrNotReady = errors.New("database not ready")

// System is a started or startable connection pool.
type System interface {
	Connection() (*sql.DB, error)
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	db     *sql.DB
	cfg    *Config
	logger *slog.Logger
	ready  bool
}

// New opens the pool described by cfg. No connection is made until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		db:     db,
		cfg:    cfg,
		logger: logger.With("system", "database"),
	}, nil
}

// Connection returns the pool once Start has succeeded.
func (d *database) Connection() (*sql.DB, error) {
	if !d.ready {
		return nil, ErrNotReady
	}
	return d.db, nil
}

// Start pings the database and registers pool shutdown with lc.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	d.ready = true
	d.logger.Info("database connected", "host", d.cfg.Host, "name", d.cfg.Name, "sslmode", d.cfg.SSLMode)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.db.Close(); err != nil {
			d.logger.Error("database close error", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}
