// Package sweep runs the engine's time-driven transitions on a fixed interval.
package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/worker/core"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// LockKey is the Redis key guarding sweep rounds.
const LockKey = "lock:sweep"

// Sweeper is the part of the engine a worker drives.
type Sweeper interface {
	ProjectsToSweep(ctx context.Context) ([]int64, error)
	SweepProject(ctx context.Context, projectID int64) (service.SweepResult, error)
}

// Locker keeps concurrent workers from sweeping at the same time.
type Locker interface {
	Acquire(ctx context.Context) (string, bool, error)
	Release(ctx context.Context, token string) error
}

// Worker sweeps every due project once per interval.
type Worker struct {
	sweeper     Sweeper
	lock        Locker
	reporter    *core.StatusReporter
	logger      *zap.Logger
	interval    time.Duration
	concurrency int
}

// Option configures a Worker.
type Option func(*Worker)

// WithLock makes rounds conditional on holding lock.
func WithLock(lock Locker) Option {
	return func(w *Worker) {
		w.lock = lock
	}
}

// WithReporter publishes worker heartbeats through reporter.
func WithReporter(reporter *core.StatusReporter) Option {
	return func(w *Worker) {
		w.reporter = reporter
	}
}

// New creates a new sweep worker.
func New(sweeper Sweeper, interval time.Duration, concurrency int, logger *zap.Logger, opts ...Option) *Worker {
	w := &Worker{
		sweeper:     sweeper,
		logger:      logger.Named("sweep_worker"),
		interval:    interval,
		concurrency: max(concurrency, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start runs sweep rounds until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Int("concurrency", w.concurrency))

	if w.reporter != nil {
		w.logger.Info("Reporting worker status", zap.String("workerID", w.reporter.GetWorkerID()))
		w.reporter.Start(ctx)
		defer w.reporter.Stop()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Round(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Sweep round failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.logger.Info("Sweep worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Round performs one sweep over every due project. A failing project is logged and
// skipped. Round is a no-op when another worker holds the lock.
func (w *Worker) Round(ctx context.Context) (service.SweepResult, error) {
	if w.lock != nil {
		token, ok, err := w.lock.Acquire(ctx)
		if err != nil {
			w.setHealthy(false)
			return service.SweepResult{}, err
		}
		if !ok {
			w.logger.Debug("Sweep lock held elsewhere, skipping round")
			w.updateStatus("Waiting for sweep lock")
			return service.SweepResult{}, nil
		}

		defer func() {
			// Release even if the round was cancelled
			if err := w.lock.Release(context.WithoutCancel(ctx), token); err != nil {
				w.logger.Warn("Failed to release sweep lock", zap.Error(err))
			}
		}()
	}

	w.updateStatus("Listing projects")

	ids, err := w.sweeper.ProjectsToSweep(ctx)
	if err != nil {
		w.setHealthy(false)
		return service.SweepResult{}, err
	}

	w.updateStatus("Sweeping projects")

	var failed atomic.Int64
	p := pool.NewWithResults[service.SweepResult]().WithContext(ctx).WithMaxGoroutines(w.concurrency)

	for _, id := range ids {
		p.Go(func(ctx context.Context) (service.SweepResult, error) {
			result, err := w.sweeper.SweepProject(ctx, id)
			if err != nil {
				failed.Add(1)
				w.logger.Error("Failed to sweep project", zap.Int64("projectID", id), zap.Error(err))
				return service.SweepResult{}, nil
			}

			return result, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return service.SweepResult{}, err
	}

	var total service.SweepResult
	for _, result := range results {
		total.Add(result)
	}

	if total.Changed() || failed.Load() > 0 {
		w.logger.Info("Sweep round finished",
			zap.Int("projects", len(ids)),
			zap.Int("expired", total.Expired),
			zap.Int("resolved", total.Resolved),
			zap.Bool("activated", total.Activated),
			zap.Int64("failed", failed.Load()))
	}

	w.setHealthy(failed.Load() == 0)
	w.updateStatus("Idle")
	if w.reporter != nil {
		w.reporter.RecordSweep()
	}

	return total, ctx.Err()
}

func (w *Worker) updateStatus(task string) {
	if w.reporter != nil {
		w.reporter.UpdateStatus(task)
	}
}

func (w *Worker) setHealthy(healthy bool) {
	if w.reporter != nil {
		w.reporter.SetHealthy(healthy)
	}
}
