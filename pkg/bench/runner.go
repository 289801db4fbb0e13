package bench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modoterra/rebound/pkg/core"
)

// Reporter receives progress callbacks from a run. Callbacks arrive
// strictly in cycle order, on the run's goroutine.
type Reporter interface {
	// CycleStarted is called before the restart of cycle index (1-based).
	CycleStarted(index, total int)

	// CycleDone is called once the cycle's duration has been measured.
	CycleDone(m core.Measurement)
}

// NopReporter discards all callbacks.
type NopReporter struct{}

func (NopReporter) CycleStarted(int, int)      {}
func (NopReporter) CycleDone(core.Measurement) {}

// Runner drives restart cycles sequentially: each cycle restarts the
// service, opens a fresh log stream, and waits for the markers. Cycles
// are never overlapped; the service can only be in one state at a time.
type Runner struct {
	restarter core.Restarter
	logs      core.LogSource
	markers   core.Markers
	reporter  Reporter
	logger    *slog.Logger
}

// NewRunner creates a runner over the given providers.
func NewRunner(restarter core.Restarter, logs core.LogSource, markers core.Markers, reporter Reporter, logger *slog.Logger) *Runner {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Runner{
		restarter: restarter,
		logs:      logs,
		markers:   markers,
		reporter:  reporter,
		logger:    logger,
	}
}

// Run performs n restart cycles and returns the measurements collected so
// far along with the first error. A restart failure aborts the run:
// completed measurements are returned but no further cycles are attempted.
func (r *Runner) Run(ctx context.Context, n int) (core.RunResult, error) {
	var result core.RunResult
	for i := 1; i <= n; i++ {
		r.reporter.CycleStarted(i, n)

		if err := r.restarter.Restart(ctx); err != nil {
			return result, fmt.Errorf("restart via %s: %w", r.restarter.Name(), err)
		}

		stream, err := r.logs.Open(ctx)
		if err != nil {
			return result, fmt.Errorf("open %s logs: %w", r.logs.Name(), err)
		}
		elapsed, err := AwaitDuration(ctx, stream, r.markers)
		stream.Close()
		if err != nil {
			return result, err
		}

		m := core.Measurement{Index: i, Elapsed: elapsed}
		result.Measurements = append(result.Measurements, m)
		r.logger.Debug("cycle measured", "index", i, "elapsed", elapsed)
		r.reporter.CycleDone(m)
	}
	return result, nil
}
