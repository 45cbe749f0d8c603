// Package workers bounds how many CPU-heavy jobs (rasterization, OCR, text
// extraction) run at once so they cannot starve lighter requests.
package workers

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned when a job is submitted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Pool runs jobs with bounded concurrency.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	active atomic.Int64
	closed atomic.Bool
	logger *slog.Logger
}

// New creates a pool of size slots. A size below 1 uses runtime.NumCPU().
func New(size int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   size,
		logger: logger.With("system", "workers"),
	}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return p.size
}

// Active returns the number of jobs currently running.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Close rejects further submissions. Running jobs are unaffected.
func (p *Pool) Close() {
	p.closed.Store(true)
}

// Do waits for a slot and runs job. ctx bounds only the wait: once started,
// job runs to completion.
func (p *Pool) Do(ctx context.Context, name string, job func() error) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	queued := time.Now()
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	p.active.Add(1)
	defer p.active.Add(-1)

	start := time.Now()
	err := job()

	p.logger.Debug("job complete",
		"job", name,
		"wait", start.Sub(queued),
		"duration", time.Since(start),
		"error", err,
	)
	return err
}

// Run is Do for jobs that produce a value.
func Run[T any](ctx context.Context, p *Pool, name string, job func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func() error {
		var err error
		out, err = job()
		return err
	})
	return out, err
}
