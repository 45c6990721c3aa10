package k8s_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	kubescheme "k8s.io/client-go/kubernetes/scheme"

	"github.com/kindling-sh/kindling/internal/k8s"
)

func node(name string, ready bool) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: status},
			},
		},
	}
}

func deployment(namespace, name string, available bool) *appsv1.Deployment {
	status := corev1.ConditionFalse
	if available {
		status = corev1.ConditionTrue
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{Name: name, Args: []string{"--secure-port=10250"}},
					},
				},
			},
		},
		Status: appsv1.DeploymentStatus{
			Conditions: []appsv1.DeploymentCondition{
				{Type: appsv1.DeploymentAvailable, Status: status},
			},
		},
	}
}

func TestClient_NodesReady(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		node("codespace-kind-control-plane", true),
		node("codespace-kind-worker", false),
	)
	client := k8s.New(clientset, nil)

	ready, total, err := client.NodesReady(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ready)
	assert.Equal(t, 2, total)
}

func TestClient_DeploymentAvailable(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		deployment("kube-system", "metrics-server", true),
		deployment("ingress-nginx", "ingress-nginx-controller", false),
	)
	client := k8s.New(clientset, nil)

	available, err := client.DeploymentAvailable(context.Background(), "kube-system", "metrics-server")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.DeploymentAvailable(context.Background(), "ingress-nginx", "ingress-nginx-controller")
	require.NoError(t, err)
	assert.False(t, available)

	// Missing deployments are "not yet", not a fault.
	available, err = client.DeploymentAvailable(context.Background(), "kube-system", "absent")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestClient_WaitForDeployment_Timeout(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(deployment("kube-system", "metrics-server", false))
	client := k8s.New(clientset, nil)

	err := client.WaitForDeployment(context.Background(), "kube-system", "metrics-server", 50*time.Millisecond)
	assert.Error(t, err)
}

func TestClient_PatchDeploymentArgs(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(deployment("kube-system", "metrics-server", true))
	client := k8s.New(clientset, nil)

	ctx := context.Background()
	require.NoError(t, client.PatchDeploymentArgs(ctx, "kube-system", "metrics-server",
		"metrics-server", "--kubelet-insecure-tls"))

	patched, err := clientset.AppsV1().Deployments("kube-system").Get(ctx, "metrics-server", metav1.GetOptions{})
	require.NoError(t, err)
	args := patched.Spec.Template.Spec.Containers[0].Args
	assert.Contains(t, args, "--kubelet-insecure-tls")
	assert.Contains(t, args, "--secure-port=10250")

	// Patching again must not duplicate the argument.
	require.NoError(t, client.PatchDeploymentArgs(ctx, "kube-system", "metrics-server",
		"metrics-server", "--kubelet-insecure-tls"))
	patched, err = clientset.AppsV1().Deployments("kube-system").Get(ctx, "metrics-server", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Len(t, patched.Spec.Template.Spec.Containers[0].Args, 2)
}

func TestClient_PatchDeploymentArgs_MissingContainer(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(deployment("kube-system", "metrics-server", true))
	client := k8s.New(clientset, nil)

	err := client.PatchDeploymentArgs(context.Background(), "kube-system", "metrics-server",
		"nonexistent", "--flag")
	assert.ErrorContains(t, err, "no container")
}

func TestClient_Apply(t *testing.T) {
	t.Parallel()

	manifest := []byte(`apiVersion: v1
kind: Namespace
metadata:
  name: ingress-nginx
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: ingress-nginx-controller
  namespace: ingress-nginx
data:
  allow-snippet-annotations: "false"
`)

	dyn := dynamicfake.NewSimpleDynamicClient(kubescheme.Scheme)
	client := k8s.New(fake.NewSimpleClientset(), dyn)

	ctx := context.Background()
	require.NoError(t, client.Apply(ctx, manifest))

	// Applying the same manifest again updates in place.
	require.NoError(t, client.Apply(ctx, manifest))
}

func TestClient_Apply_BadManifest(t *testing.T) {
	t.Parallel()

	dyn := dynamicfake.NewSimpleDynamicClient(kubescheme.Scheme)
	client := k8s.New(fake.NewSimpleClientset(), dyn)

	err := client.Apply(context.Background(), []byte("{not yaml"))
	assert.Error(t, err)
}

func TestClient_MetricsAvailable(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset()
	client := k8s.New(clientset, nil)

	// The fake discovery serves no aggregated groups.
	available, err := client.MetricsAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, available)
}
