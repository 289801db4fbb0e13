package core

import (
	"fmt"
	"time"
)

// FormatDuration renders d as H:MM:SS with a six-digit microsecond
// fraction when the sub-second part is nonzero, e.g. "0:00:18.444228".
// The value is rounded to the nearest microsecond first.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Microsecond)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	us := d / time.Microsecond

	if us == 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d.%06d", h, m, s, us)
}
