// Package bench runs restart cycles against a service and measures the
// started→ready latency of each one.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/modoterra/rebound/pkg/core"
)

// AwaitDuration blocks until the stream yields a start marker followed by
// a ready marker and returns the timestamp difference. A later start
// marker seen before the ready marker replaces the earlier one: the
// latest start is authoritative. Lines matching neither marker are
// ignored. There is no timeout; callers cancel via ctx.
func AwaitDuration(ctx context.Context, stream *core.Stream, markers core.Markers) (time.Duration, error) {
	var startAt time.Time
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case entry, ok := <-stream.Lines():
			if !ok {
				return 0, fmt.Errorf("log stream ended before ready marker")
			}
			switch {
			case markers.Start.MatchString(entry.Message):
				startAt = entry.Timestamp
			case !startAt.IsZero() && markers.Ready.MatchString(entry.Message):
				return entry.Timestamp.Sub(startAt), nil
			}
		}
	}
}
