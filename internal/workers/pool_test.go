package workers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/pdf-lab/internal/workers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_DefaultSize(t *testing.T) {
	p := workers.New(0, testLogger())
	if p.Size() < 1 {
		t.Errorf("Size() = %d, want >= 1", p.Size())
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	p := workers.New(2, testLogger())

	var current, peak atomic.Int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			p.Do(context.Background(), "test", func() error {
				n := current.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				current.Add(-1)
				return nil
			})
		})
	}

	wg.Wait()

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestPool_ReturnsJobError(t *testing.T) {
	p := workers.New(1, testLogger())
	want := errors.New("render failed")

	if err := p.Do(context.Background(), "test", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Do() error = %v, want %v", err, want)
	}
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	p := workers.New(1, testLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	go p.Do(context.Background(), "blocker", func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	err := p.Do(ctx, "waiter", func() error {
		ran = true
		return nil
	})
	close(release)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
	if ran {
		t.Error("job should not run after its context expired")
	}
}

func TestPool_Closed(t *testing.T) {
	p := workers.New(1, testLogger())
	p.Close()

	if err := p.Do(context.Background(), "test", func() error { return nil }); !errors.Is(err, workers.ErrPoolClosed) {
		t.Errorf("Do() error = %v, want ErrPoolClosed", err)
	}
}

func TestRun(t *testing.T) {
	p := workers.New(1, testLogger())

	got, err := workers.Run(context.Background(), p, "answer", func() (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("Run() = %d, %v", got, err)
	}
}
