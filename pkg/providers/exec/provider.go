// Package exec restarts services by running a configured shell command.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Restarter restarts the service by invoking a restart command, e.g.
// "systemctl restart nginx" on hosts where D-Bus is unavailable.
type Restarter struct {
	command string
	logger  *slog.Logger
}

// New creates a restarter for the given shell command.
func New(command string, logger *slog.Logger) *Restarter {
	return &Restarter{command: command, logger: logger}
}

func (r *Restarter) Name() string { return "exec" }

// Verify checks that a restart command is configured.
func (r *Restarter) Verify(_ context.Context) error {
	if r.command == "" {
		return fmt.Errorf("no restart command configured")
	}
	return nil
}

// Restart runs the command and treats any non-zero exit as fatal.
func (r *Restarter) Restart(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", r.command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("restart command %q exited with code %d: %s",
				r.command, exitErr.ExitCode(), bytes.TrimSpace(out))
		}
		return fmt.Errorf("restart command %q: %w", r.command, err)
	}
	r.logger.Debug("restart command finished", "command", r.command)
	return nil
}
