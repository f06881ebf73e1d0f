package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// Dispatcher runs best-effort side effects after the write that caused
// them has committed. Task failures are logged and counted, never returned.
type Dispatcher struct {
	Metrics *observability.Metrics

	// Timeout bounds each task. Zero means 30 seconds.
	Timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Go runs fn in the background. The task keeps ctx's values (the request
// logger) but not its cancellation. After Close, tasks are dropped.
func (d *Dispatcher) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		slogx.FromContext(ctx).Warn("dispatcher closed, dropping task", slog.String("task", name))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		log := slogx.FromContext(ctx).With(slog.String("task", name))

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return fn(ctx)
		}()

		d.Metrics.ObserveTask(name, err)
		if err != nil {
			log.Error("background task failed", slog.Any("error", err))
			return
		}
		log.Debug("background task finished")
	}()
}

// Wait blocks until every started task has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close stops accepting tasks and waits for running ones, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
