// Package filetail streams log entries by tailing a plain log file, for
// services that log to disk instead of journald. Lines carry no parseable
// timestamp, so entries are stamped at arrival time.
package filetail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/modoterra/rebound/pkg/core"
)

const pollInterval = 250 * time.Millisecond

// Source opens tail streams over a single log file.
type Source struct {
	path   string
	tail   int
	logger *slog.Logger
}

// New creates a file tail source starting each stream tail lines before
// the current end of file.
func New(path string, tail int, logger *slog.Logger) *Source {
	return &Source{path: path, tail: tail, logger: logger}
}

func (s *Source) Name() string { return "file" }

// Open starts tailing the file. Closing the returned stream stops the
// reader goroutine at its next poll.
func (s *Source) Open(ctx context.Context) (*core.Stream, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	if err := seekBack(f, s.tail); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek %s: %w", s.path, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan core.Entry, 100)

	go func() {
		defer f.Close()
		defer close(ch)

		reader := bufio.NewReader(f)
		var pending strings.Builder
		for {
			chunk, err := reader.ReadString('\n')
			pending.WriteString(chunk)
			if err != nil {
				// A line written across the poll boundary stays
				// buffered until its newline arrives. Poll for new
				// data, restarting from the top if the file was
				// truncated by rotation.
				select {
				case <-subCtx.Done():
					return
				case <-time.After(pollInterval):
				}
				info, serr := f.Stat()
				if serr != nil {
					continue
				}
				pos, _ := f.Seek(0, io.SeekCurrent)
				if info.Size() < pos {
					f.Seek(0, io.SeekStart)
					reader.Reset(f)
					pending.Reset()
				}
				continue
			}

			entry := core.Entry{
				Timestamp: time.Now(),
				Message:   strings.TrimRight(pending.String(), "\n"),
			}
			pending.Reset()
			select {
			case ch <- entry:
			case <-subCtx.Done():
				return
			}
		}
	}()

	s.logger.Debug("tailing file", "path", s.path, "tail", s.tail)
	return core.NewStream(ch, cancel), nil
}

// seekBack positions f so that reading resumes n lines before EOF,
// scanning backwards through at most the last 64KiB.
func seekBack(f *os.File, n int) error {
	if n <= 0 {
		_, err := f.Seek(0, io.SeekEnd)
		return err
	}

	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	window := int64(64 * 1024)
	if size < window {
		window = size
	}
	if window == 0 {
		return nil
	}

	buf := make([]byte, window)
	if _, err := f.ReadAt(buf, size-window); err != nil && err != io.EOF {
		return err
	}

	pos := len(buf)
	if buf[pos-1] == '\n' {
		pos--
	}
	seen := 0
	for pos > 0 {
		if buf[pos-1] == '\n' {
			seen++
			if seen == n {
				break
			}
		}
		pos--
	}

	_, err = f.Seek(size-window+int64(pos), io.SeekStart)
	return err
}
