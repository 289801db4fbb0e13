package core

import (
	"fmt"
	"time"
)

// Measurement is the elapsed started→ready time of one restart cycle.
// Immutable once computed.
type Measurement struct {
	Index   int           `json:"index"`
	Elapsed time.Duration `json:"elapsed"`
}

// RunResult is the ordered sequence of measurements from one session.
// Aggregate values are derived, not stored.
type RunResult struct {
	Measurements []Measurement `json:"measurements"`
}

// Count returns the number of completed cycles.
func (r RunResult) Count() int { return len(r.Measurements) }

// Total returns the sum of all measured durations.
func (r RunResult) Total() time.Duration {
	var total time.Duration
	for _, m := range r.Measurements {
		total += m.Elapsed
	}
	return total
}

// Min returns the shortest measurement, or zero for an empty result.
func (r RunResult) Min() time.Duration {
	if len(r.Measurements) == 0 {
		return 0
	}
	min := r.Measurements[0].Elapsed
	for _, m := range r.Measurements[1:] {
		if m.Elapsed < min {
			min = m.Elapsed
		}
	}
	return min
}

// Max returns the longest measurement, or zero for an empty result.
func (r RunResult) Max() time.Duration {
	if len(r.Measurements) == 0 {
		return 0
	}
	max := r.Measurements[0].Elapsed
	for _, m := range r.Measurements[1:] {
		if m.Elapsed > max {
			max = m.Elapsed
		}
	}
	return max
}

// Avg returns Total divided by Count, or zero for an empty result.
func (r RunResult) Avg() time.Duration {
	if len(r.Measurements) == 0 {
		return 0
	}
	return r.Total() / time.Duration(len(r.Measurements))
}

// Summary renders the two aggregate lines printed after a run.
func (r RunResult) Summary() string {
	return fmt.Sprintf("Restarts: %d, Total time: %s\nmin: %s, max: %s, avg: %s",
		r.Count(),
		FormatDuration(r.Total()),
		FormatDuration(r.Min()),
		FormatDuration(r.Max()),
		FormatDuration(r.Avg()))
}
