package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modoterra/rebound/pkg/config"
	"github.com/modoterra/rebound/pkg/core"
)

func TestConfigValidateCommand(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "rebound.yaml")
	content := []byte(`version: 1
service:
  kind: systemd
  unit: nginx.service
markers:
  start: 'Started nginx'
  ready: 'Configuration complete'
logs:
  source: journald
  tail: 2
`)
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"config", "validate", tmp})
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "rebound.yaml")
	rootCmd.SetArgs([]string{"config", "init", "--output", tmp})
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(tmp)
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if errs := config.Validate(cfg); len(errs) != 0 {
		t.Errorf("generated config should validate, got %v", errs)
	}
}

type scriptedRestarter struct{}

func (scriptedRestarter) Name() string                  { return "scripted" }
func (scriptedRestarter) Verify(context.Context) error  { return nil }
func (scriptedRestarter) Restart(context.Context) error { return nil }

// scriptedSource replays one started/ready pair per Open.
type scriptedSource struct {
	durations []time.Duration
	opens     int
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) Open(context.Context) (*core.Stream, error) {
	d := s.durations[s.opens]
	s.opens++
	base := time.Unix(1700000000, 0)
	ch := make(chan core.Entry, 2)
	ch <- core.Entry{Timestamp: base, Message: "started"}
	ch <- core.Entry{Timestamp: base.Add(d), Message: "ready"}
	close(ch)
	return core.NewStream(ch, nil), nil
}

func TestRunPlainEndToEnd(t *testing.T) {
	markers, err := core.CompileMarkers(`^started$`, `^ready$`)
	if err != nil {
		t.Fatal(err)
	}
	source := &scriptedSource{durations: []time.Duration{
		18444228 * time.Microsecond,
		17258119 * time.Microsecond,
		16693717 * time.Microsecond,
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	buf := &bytes.Buffer{}
	if err := runPlain(context.Background(), scriptedRestarter{}, source, markers, logger, 3, buf); err != nil {
		t.Fatalf("runPlain: %v", err)
	}

	want := "Restart #1: 0:00:18.444228\n" +
		"Restart #2: 0:00:17.258119\n" +
		"Restart #3: 0:00:16.693717\n" +
		"________________________________________\n" +
		"Restarts: 3, Total time: 0:00:52.396064\n" +
		"min: 0:00:16.693717, max: 0:00:18.444228, avg: 0:00:17.465355\n"
	if buf.String() != want {
		t.Errorf("output:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestPlainReporterLine(t *testing.T) {
	buf := &bytes.Buffer{}
	r := plainReporter{out: buf}
	r.CycleDone(core.Measurement{Index: 1, Elapsed: 18444228 * time.Microsecond})
	if buf.String() != "Restart #1: 0:00:18.444228\n" {
		t.Errorf("got %q", buf.String())
	}
}
