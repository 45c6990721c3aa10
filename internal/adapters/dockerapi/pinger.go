// Package dockerapi talks to the Docker daemon over its API socket.
package dockerapi

import (
	"context"

	"github.com/docker/docker/client"
)

// Pinger probes Docker daemon liveness through the Docker API.
type Pinger struct {
	cli *client.Client
}

// NewPinger creates a Pinger using environment-based client
// configuration (DOCKER_HOST etc.).
func NewPinger() (*Pinger, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, err
	}
	return &Pinger{cli: cli}, nil
}

// Ping reports whether the daemon answers on its socket. A false
// return with nil error means the daemon is not up yet.
func (p *Pinger) Ping(ctx context.Context) (bool, error) {
	if _, err := p.cli.Ping(ctx); err != nil {
		// Connection errors mean the daemon is not running, which is
		// exactly the state the caller is waiting to change.
		return false, nil
	}
	return true, nil
}

// Close releases the underlying API client.
func (p *Pinger) Close() error {
	return p.cli.Close()
}
