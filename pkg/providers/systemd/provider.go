// Package systemd restarts services via the systemd D-Bus API.
package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Restarter restarts a single systemd unit via D-Bus.
type Restarter struct {
	unit   string
	logger *slog.Logger
}

// New creates a restarter for the given unit name.
func New(unit string, logger *slog.Logger) *Restarter {
	return &Restarter{unit: unit, logger: logger}
}

func (r *Restarter) Name() string { return "systemd" }

// Verify checks that the unit is known to systemd before a run begins.
func (r *Restarter) Verify(ctx context.Context) error {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{r.unit})
	if err != nil {
		return fmt.Errorf("list unit %s: %w", r.unit, err)
	}
	if len(units) == 0 || units[0].LoadState != "loaded" {
		return fmt.Errorf("unit %s is not loaded", r.unit)
	}
	return nil
}

// Restart issues a restart job and waits for its result.
func (r *Restarter) Restart(ctx context.Context) error {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	ch := make(chan string, 1)
	if _, err := conn.RestartUnitContext(ctx, r.unit, "replace", ch); err != nil {
		return fmt.Errorf("systemd restart %s: %w", r.unit, err)
	}

	result := <-ch
	if result != "done" {
		return fmt.Errorf("systemd restart %s: job result %q", r.unit, result)
	}
	r.logger.Debug("unit restarted", "unit", r.unit)
	return nil
}
