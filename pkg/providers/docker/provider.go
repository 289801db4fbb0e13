// Package docker restarts containers via the Docker API.
package docker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moby/moby/client"
)

// Restarter restarts a single container through the Docker daemon.
type Restarter struct {
	container string
	cli       *client.Client
	logger    *slog.Logger
}

// New creates a restarter for the given container name, connecting to
// the Docker daemon from the environment (DOCKER_HOST etc).
func New(containerName string, logger *slog.Logger) (*Restarter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker connect: %w", err)
	}
	return &Restarter{container: containerName, cli: cli, logger: logger}, nil
}

func (r *Restarter) Name() string { return "docker" }

// Verify checks that the container exists.
func (r *Restarter) Verify(ctx context.Context) error {
	if _, err := r.cli.ContainerInspect(ctx, r.container, client.ContainerInspectOptions{}); err != nil {
		return fmt.Errorf("docker inspect %s: %w", r.container, err)
	}
	return nil
}

// Restart restarts the container with the daemon's default stop timeout.
func (r *Restarter) Restart(ctx context.Context) error {
	if _, err := r.cli.ContainerRestart(ctx, r.container, client.ContainerRestartOptions{}); err != nil {
		return fmt.Errorf("docker restart %s: %w", r.container, err)
	}
	r.logger.Debug("container restarted", "container", r.container)
	return nil
}

// Close releases the Docker client connection.
func (r *Restarter) Close() error {
	return r.cli.Close()
}
