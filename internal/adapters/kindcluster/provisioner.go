// Package kindcluster wraps the kind cluster provider.
package kindcluster

import (
	"fmt"
	"os"
	"slices"

	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/kind/pkg/cluster"
	kindcmd "sigs.k8s.io/kind/pkg/cmd"
	"sigs.k8s.io/yaml"
)

// descriptorPath is where the rendered cluster config is written so
// users can inspect or reuse it.
const descriptorPath = "/tmp/kindling-cluster.yaml"

// Provisioner creates and inspects kind clusters through the kind
// library rather than the kind CLI.
type Provisioner struct {
	provider       *cluster.Provider
	descriptorPath string
}

// NewProvisioner creates a Provisioner with kind's standard CLI
// logger for progress output.
func NewProvisioner() *Provisioner {
	return &Provisioner{
		provider: cluster.NewProvider(
			cluster.ProviderWithLogger(kindcmd.NewLogger()),
		),
		descriptorPath: descriptorPath,
	}
}

// Exists reports whether a cluster with the given name is known to
// kind.
func (p *Provisioner) Exists(name string) (bool, error) {
	clusters, err := p.provider.List()
	if err != nil {
		return false, fmt.Errorf("listing kind clusters: %w", err)
	}
	return slices.Contains(clusters, name), nil
}

// Create provisions a cluster with one control-plane node and one
// worker. The rendered config is written to /tmp for inspection.
func (p *Provisioner) Create(name string) error {
	cfg := twoNodeCluster(name)

	if err := p.writeDescriptor(cfg); err != nil {
		return err
	}

	if err := p.provider.Create(
		name,
		cluster.CreateWithV1Alpha4Config(cfg),
		cluster.CreateWithDisplayUsage(false),
		cluster.CreateWithDisplaySalutation(false),
	); err != nil {
		return fmt.Errorf("creating kind cluster %q: %w", name, err)
	}
	return nil
}

// twoNodeCluster builds the cluster topology kindling provisions.
func twoNodeCluster(name string) *v1alpha4.Cluster {
	return &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Name: name,
		Nodes: []v1alpha4.Node{
			{Role: v1alpha4.ControlPlaneRole},
			{Role: v1alpha4.WorkerRole},
		},
	}
}

func (p *Provisioner) writeDescriptor(cfg *v1alpha4.Cluster) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering cluster config: %w", err)
	}
	if err := os.WriteFile(p.descriptorPath, data, 0o644); err != nil {
		return fmt.Errorf("writing cluster config: %w", err)
	}
	return nil
}
