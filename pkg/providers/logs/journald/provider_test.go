package journald

import (
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	line := []byte(`{"__REALTIME_TIMESTAMP":"1690000000123456","MESSAGE":"block-manager: block 42 begin"}`)
	entry, ok := parseLine(line)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if entry.Message != "block-manager: block 42 begin" {
		t.Errorf("message: got %q", entry.Message)
	}
	want := time.UnixMicro(1690000000123456)
	if !entry.Timestamp.Equal(want) {
		t.Errorf("timestamp: got %v, want %v", entry.Timestamp, want)
	}
}

func TestParseLineSkipsMalformed(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"not json", `journalctl: unit not found`},
		{"empty", ``},
		{"non-string message", `{"__REALTIME_TIMESTAMP":"1690000000000000","MESSAGE":[104,105]}`},
		{"missing message", `{"__REALTIME_TIMESTAMP":"1690000000000000"}`},
		{"missing timestamp", `{"MESSAGE":"hello"}`},
		{"bad timestamp", `{"__REALTIME_TIMESTAMP":"soon","MESSAGE":"hello"}`},
	}
	for _, tt := range cases {
		if _, ok := parseLine([]byte(tt.line)); ok {
			t.Errorf("%s: expected line to be skipped", tt.name)
		}
	}
}
