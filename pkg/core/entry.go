package core

import "time"

// Entry is a single log record read from a log source.
// Entries are ephemeral: matched against the markers once, then discarded.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
