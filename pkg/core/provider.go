package core

import "context"

// Restarter restarts the target service via its process supervisor.
type Restarter interface {
	// Name returns the provider's identifier (e.g., "systemd", "docker", "exec").
	Name() string

	// Verify checks that the target exists before a run begins.
	Verify(ctx context.Context) error

	// Restart issues the restart and waits for the supervisor to report
	// whether it was accepted.
	Restart(ctx context.Context) error
}

// LogSource opens a live stream of log entries for the target service.
// A stream is valid for a single restart cycle: callers open a fresh one
// per cycle and close it once a match is found.
type LogSource interface {
	// Name returns the source's identifier (e.g., "journald", "file").
	Name() string

	// Open starts streaming, beginning roughly tail lines before the
	// current end of the log.
	Open(ctx context.Context) (*Stream, error)
}

// Stream is a cancellable live sequence of log entries.
type Stream struct {
	ch     <-chan Entry
	cancel context.CancelFunc
}

// NewStream wraps a channel of entries with the cancel function that
// tears down the underlying source.
func NewStream(ch <-chan Entry, cancel context.CancelFunc) *Stream {
	return &Stream{ch: ch, cancel: cancel}
}

// Lines returns the entry channel. It is closed when the source ends.
func (s *Stream) Lines() <-chan Entry { return s.ch }

// Close cancels the underlying source. Safe to call more than once.
func (s *Stream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
