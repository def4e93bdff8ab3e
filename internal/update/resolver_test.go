package update

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "launcher/internal/errors"
)

const feedBody = `{
	"tag_name": "2.0.0",
	"name": "Westward 2.0",
	"body": "## Changes\n- faster wagons",
	"published_at": "2025-04-01T15:04:05Z",
	"assets": [
		{"name": "westward-2.0.0.jar", "browser_download_url": "https://example.com/jar"},
		{"name": "westward-linux-2.0.0", "browser_download_url": "https://example.com/linux"},
		{"name": "westward-windows-2.0.0.exe", "browser_download_url": "https://example.com/windows"}
	]
}`

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver("")
	assert.Equal(t, DefaultFeedURL, r.FeedURL())
	assert.Equal(t, "westward-updater", r.userAgent)
	require.NotNil(t, r.httpClient)
	assert.Equal(t, DefaultTimeout, r.httpClient.Timeout)
}

func TestResolverOptions(t *testing.T) {
	client := &http.Client{}
	r := NewResolver("https://feed.example.com",
		WithHTTPClient(client),
		WithTimeout(3*time.Second),
		WithUserAgent("oregon-updater"),
	)
	assert.Equal(t, "https://feed.example.com", r.FeedURL())
	assert.Same(t, client, r.httpClient)
	assert.Equal(t, 3*time.Second, client.Timeout)
	assert.Equal(t, "oregon-updater", r.userAgent)
}

func TestFetchLatest(t *testing.T) {
	gotUA := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, feedBody)
	}))
	defer server.Close()

	r := NewResolver(server.URL, WithUserAgent(UserAgent("westward")))
	release, err := r.FetchLatest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "westward-updater", <-gotUA)
	assert.Equal(t, "2.0.0", release.TagName)
	assert.Equal(t, "Westward 2.0", release.Name)
	require.Len(t, release.Assets, 3)
	assert.Equal(t, "westward-linux-2.0.0", release.Assets[1].Name)
	assert.Equal(t, "https://example.com/linux", release.Assets[1].BrowserDownloadURL)

	v, err := release.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, v.Major)

	published, ok := release.Published()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 4, 1, 15, 4, 5, 0, time.UTC), published)
	assert.Equal(t, "April 01, 2025 at 03:04 PM UTC", release.PublishedLabel())

	asset, ok := release.AssetFor(PlatformLinux, "westward")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/linux", asset.BrowserDownloadURL)
}

func TestFetchLatestErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprint(w, `{"tag_name": `)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			release, err := NewResolver(server.URL).FetchLatest(context.Background())
			require.Error(t, err)
			assert.Nil(t, release)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeFeedUnavailable), "got %v", err)
		})
	}
}

func TestFetchLatestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewResolver(url).FetchLatest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFeedUnavailable))
}

func TestFetchLatestUnparseableTagIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"tag_name": "latest", "published_at": "", "assets": []}`)
	}))
	defer server.Close()

	release, err := NewResolver(server.URL).FetchLatest(context.Background())
	require.NoError(t, err)
	_, err = release.Version()
	assert.ErrorIs(t, err, ErrInvalidVersion)
	assert.Equal(t, DecisionNoRemoteAvailable, Decide(Version{}, release))
}

func TestPublishedLabelFallsBackToRaw(t *testing.T) {
	r := &Release{PublishedAt: "yesterday"}
	_, ok := r.Published()
	assert.False(t, ok)
	assert.Equal(t, "yesterday", r.PublishedLabel())
}
