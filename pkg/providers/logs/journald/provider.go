// Package journald streams log entries for a systemd unit by following
// journalctl in JSON output mode.
package journald

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/modoterra/rebound/pkg/core"
)

// Source opens journald streams for a systemd unit.
type Source struct {
	unit   string
	tail   int
	logger *slog.Logger
}

// New creates a journald log source for the given unit, starting each
// stream tail pre-existing lines before the current journal end.
func New(unit string, tail int, logger *slog.Logger) *Source {
	return &Source{unit: unit, tail: tail, logger: logger}
}

func (s *Source) Name() string { return "journald" }

// Open starts a journalctl subprocess following the unit's journal.
// Closing the returned stream kills the subprocess.
func (s *Source) Open(ctx context.Context) (*core.Stream, error) {
	subCtx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(subCtx, "journalctl",
		"-u", s.unit, "-o", "json", "-n", strconv.Itoa(s.tail),
		"--output-fields=MESSAGE", "-f")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("journalctl pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("journalctl start: %w", err)
	}

	ch := make(chan core.Entry, 100)
	go func() {
		defer close(ch)
		defer cmd.Wait()

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			entry, ok := parseLine(scanner.Bytes())
			if !ok {
				continue
			}
			select {
			case ch <- entry:
			case <-subCtx.Done():
				return
			}
		}
	}()

	s.logger.Debug("following journal", "unit", s.unit, "tail", s.tail)
	return core.NewStream(ch, cancel), nil
}

// journalRecord is the subset of journalctl -o json fields we request.
type journalRecord struct {
	Realtime string          `json:"__REALTIME_TIMESTAMP"`
	Message  json.RawMessage `json:"MESSAGE"`
}

// parseLine decodes one journalctl JSON line. Lines that fail to decode,
// lack a timestamp, or carry a non-string MESSAGE (journald emits byte
// arrays for non-UTF-8 payloads) are dropped.
func parseLine(line []byte) (core.Entry, bool) {
	var rec journalRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return core.Entry{}, false
	}
	usec, err := strconv.ParseInt(rec.Realtime, 10, 64)
	if err != nil {
		return core.Entry{}, false
	}
	var msg string
	if err := json.Unmarshal(rec.Message, &msg); err != nil {
		return core.Entry{}, false
	}
	return core.Entry{Timestamp: time.UnixMicro(usec), Message: msg}, true
}
