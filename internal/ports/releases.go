package ports

import "context"

// ReleaseResolver resolves "latest stable" version strings for the
// external tools kindling installs. Returned tags keep the leading "v".
type ReleaseResolver interface {
	// LatestKubectl returns the latest stable Kubernetes release tag.
	LatestKubectl(ctx context.Context) (string, error)

	// LatestKind returns the latest kind release tag.
	LatestKind(ctx context.Context) (string, error)
}

// ManifestFetcher retrieves a remote Kubernetes manifest by URL.
type ManifestFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
