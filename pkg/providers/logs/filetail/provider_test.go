package filetail

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modoterra/rebound/pkg/core"
)

func openWith(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func readRest(t *testing.T, f *os.File) string {
	t.Helper()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSeekBackLastTwoLines(t *testing.T) {
	f := openWith(t, "one\ntwo\nthree\nfour\n")
	if err := seekBack(f, 2); err != nil {
		t.Fatalf("seekBack: %v", err)
	}
	if got := readRest(t, f); got != "three\nfour\n" {
		t.Errorf("got %q, want last two lines", got)
	}
}

func TestSeekBackMoreThanFile(t *testing.T) {
	f := openWith(t, "only\n")
	if err := seekBack(f, 10); err != nil {
		t.Fatalf("seekBack: %v", err)
	}
	if got := readRest(t, f); got != "only\n" {
		t.Errorf("got %q, want whole file", got)
	}
}

func TestSeekBackZeroSeeksToEnd(t *testing.T) {
	f := openWith(t, "one\ntwo\n")
	if err := seekBack(f, 0); err != nil {
		t.Fatalf("seekBack: %v", err)
	}
	if got := readRest(t, f); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSeekBackEmptyFile(t *testing.T) {
	f := openWith(t, "")
	if err := seekBack(f, 2); err != nil {
		t.Fatalf("seekBack: %v", err)
	}
	if got := readRest(t, f); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func appendTo(t *testing.T, path, s string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(s); err != nil {
		t.Fatal(err)
	}
}

func openStream(t *testing.T) (string, *core.Stream) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := New(path, 0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	stream, err := src.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { stream.Close() })
	return path, stream
}

func TestOpenReassemblesSplitLines(t *testing.T) {
	path, stream := openStream(t)

	// Write one marker line in two chunks, more than a poll apart:
	// the first chunk must not surface as an entry of its own.
	appendTo(t, path, "star")
	time.Sleep(2 * pollInterval)
	appendTo(t, path, "ted\n")

	select {
	case entry := <-stream.Lines():
		if entry.Message != "started" {
			t.Errorf("got message %q, want %q", entry.Message, "started")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for entry")
	}
}

func TestCloseStopsStream(t *testing.T) {
	_, stream := openStream(t)
	stream.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stream.Lines():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not stop after Close")
		}
	}
}

func TestSeekBackNoTrailingNewline(t *testing.T) {
	f := openWith(t, "one\ntwo\npartial")
	if err := seekBack(f, 2); err != nil {
		t.Fatalf("seekBack: %v", err)
	}
	if got := readRest(t, f); got != "two\npartial" {
		t.Errorf("got %q, want last two lines", got)
	}
}
