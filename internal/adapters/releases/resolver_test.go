package releases_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindling-sh/kindling/internal/adapters/releases"
)

func TestHTTPResolver_LatestKubectl(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("v1.31.2\n"))
	}))
	defer server.Close()

	resolver := releases.NewHTTPResolver(releases.WithKubectlStableURL(server.URL))

	version, err := resolver.LatestKubectl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.31.2", version)
}

func TestHTTPResolver_LatestKubectl_RejectsGarbage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	}))
	defer server.Close()

	resolver := releases.NewHTTPResolver(releases.WithKubectlStableURL(server.URL))

	_, err := resolver.LatestKubectl(context.Background())
	assert.ErrorContains(t, err, "unexpected kubectl version")
}

func TestHTTPResolver_LatestKind(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v0.31.0","name":"v0.31.0"}`))
	}))
	defer server.Close()

	resolver := releases.NewHTTPResolver(releases.WithKindReleaseURL(server.URL))

	version, err := resolver.LatestKind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v0.31.0", version)
}

func TestHTTPResolver_LatestKind_MissingTag(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	resolver := releases.NewHTTPResolver(releases.WithKindReleaseURL(server.URL))

	_, err := resolver.LatestKind(context.Background())
	assert.ErrorContains(t, err, "no tag_name")
}

func TestHTTPResolver_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	resolver := releases.NewHTTPResolver(releases.WithKubectlStableURL(server.URL))

	_, err := resolver.LatestKubectl(context.Background())
	assert.ErrorContains(t, err, "403")
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Parallel()

	manifest := []byte("apiVersion: v1\nkind: Namespace\nmetadata:\n  name: demo\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(manifest)
	}))
	defer server.Close()

	fetcher := releases.NewHTTPFetcher(server.Client())

	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, manifest, body)
}

func TestHTTPFetcher_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := releases.NewHTTPFetcher(server.Client())

	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "404")
}
