// Package releases resolves latest release versions and fetches
// remote manifests over HTTP.
package releases

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kindling-sh/kindling/internal/ports"
)

// Default release endpoints.
const (
	defaultKubectlStableURL = "https://dl.k8s.io/release/stable.txt"
	defaultKindReleaseURL   = "https://api.github.com/repos/kubernetes-sigs/kind/releases/latest"
)

// maxBodySize caps response bodies; version strings and release JSON
// are tiny.
const maxBodySize = 1 << 20

// HTTPResolver resolves the latest stable versions of kubectl and
// kind from their upstream release endpoints.
type HTTPResolver struct {
	client           *http.Client
	kubectlStableURL string
	kindReleaseURL   string
}

// HTTPResolverOption configures the resolver.
type HTTPResolverOption func(*HTTPResolver)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) HTTPResolverOption {
	return func(r *HTTPResolver) {
		r.client = client
	}
}

// WithKubectlStableURL overrides the kubectl stable version endpoint.
func WithKubectlStableURL(url string) HTTPResolverOption {
	return func(r *HTTPResolver) {
		r.kubectlStableURL = url
	}
}

// WithKindReleaseURL overrides the kind latest release endpoint.
func WithKindReleaseURL(url string) HTTPResolverOption {
	return func(r *HTTPResolver) {
		r.kindReleaseURL = url
	}
}

// NewHTTPResolver creates a resolver against the upstream endpoints.
func NewHTTPResolver(opts ...HTTPResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		client:           &http.Client{Timeout: 30 * time.Second},
		kubectlStableURL: defaultKubectlStableURL,
		kindReleaseURL:   defaultKindReleaseURL,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// LatestKubectl returns the latest stable Kubernetes release tag,
// e.g. "v1.31.2".
func (r *HTTPResolver) LatestKubectl(ctx context.Context) (string, error) {
	body, err := r.get(ctx, r.kubectlStableURL)
	if err != nil {
		return "", fmt.Errorf("resolving kubectl version: %w", err)
	}

	version := strings.TrimSpace(string(body))
	if !strings.HasPrefix(version, "v") {
		return "", fmt.Errorf("unexpected kubectl version %q from %s", version, r.kubectlStableURL)
	}
	return version, nil
}

// LatestKind returns the latest kind release tag, e.g. "v0.31.0".
func (r *HTTPResolver) LatestKind(ctx context.Context) (string, error) {
	body, err := r.get(ctx, r.kindReleaseURL)
	if err != nil {
		return "", fmt.Errorf("resolving kind version: %w", err)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("decoding kind release: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("kind release from %s has no tag_name", r.kindReleaseURL)
	}
	return release.TagName, nil
}

func (r *HTTPResolver) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

var _ ports.ReleaseResolver = (*HTTPResolver)(nil)
