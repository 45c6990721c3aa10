package mocks

import (
	"context"

	"github.com/kindling-sh/kindling/internal/ports"
)

// ReleaseResolver is a test double for ports.ReleaseResolver.
type ReleaseResolver struct {
	KubectlVersion string
	KindVersion    string
	KubectlErr     error
	KindErr        error
}

// NewReleaseResolver creates a resolver with fixed versions.
func NewReleaseResolver(kubectlVersion, kindVersion string) *ReleaseResolver {
	return &ReleaseResolver{
		KubectlVersion: kubectlVersion,
		KindVersion:    kindVersion,
	}
}

// LatestKubectl returns the configured kubectl version.
func (r *ReleaseResolver) LatestKubectl(_ context.Context) (string, error) {
	return r.KubectlVersion, r.KubectlErr
}

// LatestKind returns the configured kind version.
func (r *ReleaseResolver) LatestKind(_ context.Context) (string, error) {
	return r.KindVersion, r.KindErr
}

var _ ports.ReleaseResolver = (*ReleaseResolver)(nil)

// ManifestFetcher is a test double for ports.ManifestFetcher keyed by
// URL.
type ManifestFetcher struct {
	Manifests map[string][]byte
	Err       error
	Fetched   []string
}

// NewManifestFetcher creates an empty fetcher.
func NewManifestFetcher() *ManifestFetcher {
	return &ManifestFetcher{Manifests: make(map[string][]byte)}
}

// Add registers a manifest for a URL.
func (f *ManifestFetcher) Add(url string, manifest []byte) {
	f.Manifests[url] = manifest
}

// Fetch returns the registered manifest.
func (f *ManifestFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.Fetched = append(f.Fetched, url)
	if f.Err != nil {
		return nil, f.Err
	}
	if manifest, ok := f.Manifests[url]; ok {
		return manifest, nil
	}
	return nil, errNoManifest(url)
}

type errNoManifest string

func (e errNoManifest) Error() string {
	return "no mock manifest for URL: " + string(e)
}

var _ ports.ManifestFetcher = (*ManifestFetcher)(nil)
