// Package app wires adapters and providers into the kindling
// orchestrator.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kindling-sh/kindling/internal/adapters/command"
	"github.com/kindling-sh/kindling/internal/adapters/dockerapi"
	"github.com/kindling-sh/kindling/internal/adapters/kindcluster"
	"github.com/kindling-sh/kindling/internal/adapters/releases"
	"github.com/kindling-sh/kindling/internal/domain/config"
	"github.com/kindling-sh/kindling/internal/domain/execution"
	"github.com/kindling-sh/kindling/internal/domain/platform"
	"github.com/kindling-sh/kindling/internal/domain/step"
	"github.com/kindling-sh/kindling/internal/k8s"
	"github.com/kindling-sh/kindling/internal/ports"
	"github.com/kindling-sh/kindling/internal/provider/addons"
	"github.com/kindling-sh/kindling/internal/provider/apt"
	"github.com/kindling-sh/kindling/internal/provider/docker"
	"github.com/kindling-sh/kindling/internal/provider/kind"
	"github.com/kindling-sh/kindling/internal/provider/kubectl"
)

// Deps are the external adapters the orchestrator runs against.
// Tests substitute fakes.
type Deps struct {
	Runner        ports.CommandRunner
	Pinger        docker.Pinger
	Resolver      ports.ReleaseResolver
	Fetcher       ports.ManifestFetcher
	Provisioner   kind.ClusterProvisioner
	NodesFactory  kind.NodesClientFactory
	AddonsFactory addons.ClientFactory
	Username      string
}

// DefaultDeps builds the production adapters.
func DefaultDeps(cfg config.Config) (Deps, error) {
	pinger, err := dockerapi.NewPinger()
	if err != nil {
		return Deps{}, fmt.Errorf("creating docker client: %w", err)
	}

	kubeconfig := cfg.Kubeconfig()
	clientFor := func() (*k8s.Client, error) {
		return k8s.NewFromKubeconfig(kubeconfig)
	}

	return Deps{
		Runner:      command.NewExecRunner(),
		Pinger:      pinger,
		Resolver:    releases.NewHTTPResolver(),
		Fetcher:     releases.NewHTTPFetcher(nil),
		Provisioner: kindcluster.NewProvisioner(),
		NodesFactory: func() (kind.NodesClient, error) {
			return clientFor()
		},
		AddonsFactory: func() (addons.Client, error) {
			return clientFor()
		},
		Username: os.Getenv("USER"),
	}, nil
}

// Kindling orchestrates environment provisioning: it compiles the
// step graph from providers and plans or executes it.
type Kindling struct {
	cfg      config.Config
	logger   ports.Logger
	planner  *execution.Planner
	executor *execution.Executor
	deps     Deps
}

// New creates the orchestrator.
func New(cfg config.Config, logger ports.Logger, deps Deps) *Kindling {
	return &Kindling{
		cfg:      cfg,
		logger:   logger,
		planner:  execution.NewPlanner(logger),
		executor: execution.NewExecutor(logger),
		deps:     deps,
	}
}

// detectPlatform refuses to touch the system when the host is not a
// Debian/Ubuntu-derived environment.
func (k *Kindling) detectPlatform(ctx context.Context) (*platform.Platform, error) {
	host, err := platform.Detect()
	if err != nil {
		return nil, fmt.Errorf("detecting platform: %w", err)
	}

	if err := host.EnsureSupported(); err != nil {
		return nil, step.NewUnsupportedEnvironmentError(host.OSID(), err)
	}

	k.logger.Debug(ctx, "platform detected", ports.F("platform", host.String()))
	return host, nil
}

// compile builds and validates the full provisioning graph.
func (k *Kindling) compile(host *platform.Platform) (*step.Graph, error) {
	providers := []step.Provider{
		apt.NewProvider(k.deps.Runner),
		docker.NewProvider(k.deps.Runner, k.deps.Pinger, k.deps.Username, k.cfg.DaemonTimeout()),
		kubectl.NewProvider(host.Arch(), k.deps.Runner, k.deps.Resolver),
		kind.NewProvider(host.Arch(), k.cfg.ClusterName(), k.deps.Runner, k.deps.Resolver,
			k.deps.Provisioner, k.deps.NodesFactory),
	}
	if k.cfg.InstallAddons() {
		providers = append(providers, addons.NewProvider(k.deps.Fetcher, k.deps.AddonsFactory))
	}

	graph := step.NewGraph()
	for _, provider := range providers {
		steps, err := provider.Compile()
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
		}
		for _, s := range steps {
			if err := graph.Add(s); err != nil {
				return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

// Plan probes every step without changing anything.
func (k *Kindling) Plan(ctx context.Context) (execution.Plan, error) {
	host, err := k.detectPlatform(ctx)
	if err != nil {
		return execution.Plan{}, err
	}

	graph, err := k.compile(host)
	if err != nil {
		return execution.Plan{}, err
	}

	return k.planner.Plan(step.NewRunContext(ctx), graph)
}

// Up provisions the environment and returns a report of every step.
func (k *Kindling) Up(ctx context.Context) (execution.RunReport, error) {
	host, err := k.detectPlatform(ctx)
	if err != nil {
		return execution.RunReport{}, err
	}

	graph, err := k.compile(host)
	if err != nil {
		return execution.RunReport{}, err
	}

	startedAt := time.Now()
	results, err := k.executor.Execute(step.NewRunContext(ctx), graph)
	if err != nil {
		return execution.RunReport{}, err
	}

	report := execution.NewRunReport(host.String(), results, startedAt, time.Now())

	summary := report.Summary()
	k.logger.Info(ctx, "run finished",
		ports.F("run_id", report.ID()),
		ports.F("skipped", summary.Skipped),
		ports.F("succeeded", summary.Succeeded),
		ports.F("failed", summary.Failed),
		ports.F("aborted", summary.Aborted),
		ports.F("warnings", summary.Warnings))

	return report, nil
}
