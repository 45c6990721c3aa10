package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/kindling-sh/kindling/internal/domain/platform"
)

// ToolStatus describes one external tool's availability.
type ToolStatus struct {
	Name    string
	Present bool
	Version string
}

// DoctorReport summarizes the environment without changing it.
type DoctorReport struct {
	Platform      string
	Supported     bool
	Tools         []ToolStatus
	DaemonRunning bool
	ClusterExists bool
	ClusterName   string
}

// toolProbes maps tool names to their version invocations.
var toolProbes = []struct {
	name string
	args []string
}{
	{"docker", []string{"--version"}},
	{"kubectl", []string{"version", "--client"}},
	{"kind", []string{"version"}},
}

// Doctor inspects the environment: platform support, installed
// tools, daemon liveness, and cluster existence. It never modifies
// anything.
func (k *Kindling) Doctor(ctx context.Context) (DoctorReport, error) {
	host, err := platform.Detect()
	if err != nil {
		return DoctorReport{}, fmt.Errorf("detecting platform: %w", err)
	}

	report := DoctorReport{
		Platform:    host.String(),
		Supported:   host.Supported(),
		ClusterName: k.cfg.ClusterName(),
	}

	for _, probe := range toolProbes {
		status := ToolStatus{Name: probe.name}

		result, err := k.deps.Runner.Run(ctx, probe.name, probe.args...)
		if err == nil && result.Success() {
			status.Present = true
			status.Version = firstLine(result.Stdout)
		}
		report.Tools = append(report.Tools, status)
	}

	if running, err := k.deps.Pinger.Ping(ctx); err == nil {
		report.DaemonRunning = running
	}

	if exists, err := k.deps.Provisioner.Exists(k.cfg.ClusterName()); err == nil {
		report.ClusterExists = exists
	}

	return report, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
