// Package k8s wraps the Kubernetes API operations kindling needs to
// apply and verify cluster add-ons.
package k8s

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kindling-sh/kindling/internal/wait"
)

// metricsGroup is the API group the metrics-server registers.
const metricsGroup = "metrics.k8s.io"

// Client wraps the typed and dynamic Kubernetes clients.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
}

// New creates a Client from existing clients. Used in tests with
// fakes.
func New(clientset kubernetes.Interface, dyn dynamic.Interface) *Client {
	return &Client{clientset: clientset, dynamic: dyn}
}

// NewFromKubeconfig creates a Client from a kubeconfig file. An empty
// path uses the default location (~/.kube/config or KUBECONFIG).
func NewFromKubeconfig(kubeconfigPath string) (*Client, error) {
	if kubeconfigPath == "" {
		kubeconfigPath = clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("building kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w", err)
	}

	return &Client{clientset: clientset, dynamic: dynamicClient}, nil
}

// Apply applies a multi-document YAML manifest. Each object is
// created, or updated when it already exists, so re-applying the same
// manifest is safe.
func (c *Client) Apply(ctx context.Context, manifest []byte) error {
	decoder := yaml.NewYAMLOrJSONDecoder(strings.NewReader(string(manifest)), 4096)

	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decoding manifest: %w", err)
		}

		if len(obj.Object) == 0 {
			continue
		}

		if err := c.applyObject(ctx, &obj); err != nil {
			return err
		}
	}
}

func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	gvr := gvk.GroupVersion().WithResource(resourceForKind(gvk.Kind))

	var iface dynamic.ResourceInterface = c.dynamic.Resource(gvr)
	if ns := obj.GetNamespace(); ns != "" {
		iface = c.dynamic.Resource(gvr).Namespace(ns)
	}

	_, err := iface.Create(ctx, obj, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		existing, getErr := iface.Get(ctx, obj.GetName(), metav1.GetOptions{})
		if getErr != nil {
			return fmt.Errorf("fetching existing %s/%s: %w", gvk.Kind, obj.GetName(), getErr)
		}
		obj.SetResourceVersion(existing.GetResourceVersion())
		_, err = iface.Update(ctx, obj, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("applying %s/%s: %w", gvk.Kind, obj.GetName(), err)
	}
	return nil
}

// DeploymentAvailable reports whether a deployment has the Available
// condition. A missing deployment is (false, nil).
func (c *Client) DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error) {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("fetching deployment %s/%s: %w", namespace, name, err)
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true, nil
		}
	}
	return false, nil
}

// WaitForDeployment polls until a deployment reports Available or the
// timeout elapses.
func (c *Client) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	waiter := wait.New(timeout)
	return waiter.WaitFor(ctx, func(ctx context.Context) (bool, error) {
		return c.DeploymentAvailable(ctx, namespace, name)
	})
}

// NodesReady returns how many nodes report the Ready condition and
// the total node count.
func (c *Client) NodesReady(ctx context.Context) (ready, total int, err error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("listing nodes: %w", err)
	}

	for _, node := range nodes.Items {
		for _, condition := range node.Status.Conditions {
			if condition.Type == corev1.NodeReady &&
				condition.Status == corev1.ConditionTrue {
				ready++
				break
			}
		}
	}
	return ready, len(nodes.Items), nil
}

// PatchDeploymentArgs appends arguments to a container's command line
// if they are not already present. Re-running is a no-op.
func (c *Client) PatchDeploymentArgs(ctx context.Context, namespace, name, container string, args ...string) error {
	deployments := c.clientset.AppsV1().Deployments(namespace)

	deployment, err := deployments.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("fetching deployment %s/%s: %w", namespace, name, err)
	}

	containers := deployment.Spec.Template.Spec.Containers
	idx := -1
	for i := range containers {
		if containers[i].Name == container {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("deployment %s/%s has no container %q", namespace, name, container)
	}

	changed := false
	for _, arg := range args {
		if !slices.Contains(containers[idx].Args, arg) {
			containers[idx].Args = append(containers[idx].Args, arg)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if _, err := deployments.Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("updating deployment %s/%s: %w", namespace, name, err)
	}
	return nil
}

// MetricsAvailable reports whether the metrics.k8s.io API group is
// served, meaning the metrics-server is answering.
func (c *Client) MetricsAvailable(ctx context.Context) (bool, error) {
	groups, err := c.clientset.Discovery().ServerGroups()
	if err != nil {
		// Aggregated APIs answer through the metrics-server pod;
		// discovery errors here usually mean it is still warming up.
		return false, nil
	}

	for _, group := range groups.Groups {
		if group.Name == metricsGroup {
			return true, nil
		}
	}
	return false, nil
}
