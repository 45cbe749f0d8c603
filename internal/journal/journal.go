// Package journal records one row per PDF operation: which tool ran, how many
// files and bytes went in and out, and how it ended. File contents and
// passwords are never recorded.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one recorded operation.
type Entry struct {
	ID          uuid.UUID     `json:"id"`
	Operation   string        `json:"operation"`
	FileCount   int           `json:"file_count"`
	InputBytes  int64         `json:"input_bytes"`
	OutputBytes int64         `json:"output_bytes"`
	Status      int           `json:"status"`
	ErrorCode   string        `json:"error_code,omitempty"`
	Duration    time.Duration `json:"-"`
	RequestID   string        `json:"request_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// MarshalJSON reports Duration in whole milliseconds as duration_ms.
func (e Entry) MarshalJSON() ([]byte, error) {
	type entry Entry
	return json.Marshal(struct {
		entry
		DurationMS int64 `json:"duration_ms"`
	}{entry(e), e.Duration.Milliseconds()})
}

// Recorder persists entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Ping(ctx context.Context) error
}

// Noop discards every entry. It is used when the journal is disabled.
type Noop struct{}

// Record does nothing.
func (Noop) Record(context.Context, Entry) error { return nil }

// Ping always succeeds.
func (Noop) Ping(context.Context) error { return nil }

// Connector yields the connection pool once it is ready.
type Connector interface {
	Connection() (*sql.DB, error)
}

// Journal writes entries to PostgreSQL and reads them back.
type Journal struct {
	conn   Connector
	logger *slog.Logger
}

// New creates a Journal. The pool is resolved on every call, so the journal
// can be built before the database has started.
func New(conn Connector, logger *slog.Logger) *Journal {
	return &Journal{
		conn:   conn,
		logger: logger.With("system", "journal"),
	}
}

// Record inserts e. A zero ID or CreatedAt is filled in.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	const q = `
		INSERT INTO operations
			(id, operation, file_count, input_bytes, output_bytes, status, error_code, duration_ms, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	db, err := j.conn.Connection()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, q,
		e.ID, e.Operation, e.FileCount, e.InputBytes, e.OutputBytes, e.Status,
		nullable(e.ErrorCode), e.Duration.Milliseconds(), nullable(e.RequestID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (j *Journal) Ping(ctx context.Context) error {
	db, err := j.conn.Connection()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Migrate applies every pending schema migration.
func Migrate(db *sql.DB, logger *slog.Logger) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("journal schema ready", "version", version, "dirty", dirty)

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
