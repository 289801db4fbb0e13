package core

import (
	"fmt"
	"regexp"
)

// Markers holds the compiled patterns that bracket one restart cycle:
// Start matches the "service started" log line, Ready matches the line
// for the first unit of work processed after it.
type Markers struct {
	Start *regexp.Regexp
	Ready *regexp.Regexp
}

// CompileMarkers compiles the start and ready patterns.
func CompileMarkers(start, ready string) (Markers, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return Markers{}, fmt.Errorf("start pattern: %w", err)
	}
	r, err := regexp.Compile(ready)
	if err != nil {
		return Markers{}, fmt.Errorf("ready pattern: %w", err)
	}
	return Markers{Start: s, Ready: r}, nil
}
