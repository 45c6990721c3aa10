// Package addons applies the cluster add-ons: metrics-server and
// ingress-nginx.
package addons

import (
	"context"
	"time"
)

// Client is the slice of the Kubernetes API the add-on steps need.
type Client interface {
	// Apply applies a multi-document YAML manifest idempotently.
	Apply(ctx context.Context, manifest []byte) error

	// DeploymentAvailable reports the Available condition of a
	// deployment. A missing deployment is (false, nil).
	DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error)

	// WaitForDeployment polls until a deployment reports Available.
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error

	// PatchDeploymentArgs appends container arguments if absent.
	PatchDeploymentArgs(ctx context.Context, namespace, name, container string, args ...string) error

	// MetricsAvailable reports whether metrics.k8s.io is served.
	MetricsAvailable(ctx context.Context) (bool, error)
}

// ClientFactory builds a Client once the cluster's kubeconfig exists.
// It fails while the cluster is absent.
type ClientFactory func() (Client, error)
