package k8s

import "strings"

// resourceForKind maps a Kubernetes kind to its resource name. Covers
// the kinds that appear in the metrics-server and ingress-nginx
// manifests.
func resourceForKind(kind string) string {
	switch kind {
	case "Deployment":
		return "deployments"
	case "Service":
		return "services"
	case "ConfigMap":
		return "configmaps"
	case "Secret":
		return "secrets"
	case "DaemonSet":
		return "daemonsets"
	case "Job":
		return "jobs"
	case "ServiceAccount":
		return "serviceaccounts"
	case "Role":
		return "roles"
	case "RoleBinding":
		return "rolebindings"
	case "ClusterRole":
		return "clusterroles"
	case "ClusterRoleBinding":
		return "clusterrolebindings"
	case "Namespace":
		return "namespaces"
	case "IngressClass":
		return "ingressclasses"
	case "ValidatingWebhookConfiguration":
		return "validatingwebhookconfigurations"
	case "APIService":
		return "apiservices"
	case "NetworkPolicy":
		return "networkpolicies"
	default:
		return strings.ToLower(kind) + "s"
	}
}
