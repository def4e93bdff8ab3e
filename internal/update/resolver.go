package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "launcher/internal/errors"
)

// Default configuration values.
const (
	DefaultAppName = "westward"
	DefaultFeedURL = "https://api.github.com/repos/d-catte/Westward/releases/latest"
	DefaultTimeout = 10 * time.Second

	// maxFeedBytes bounds the release metadata read from the feed.
	maxFeedBytes = 4 << 20

	publishedLayout = "January 02, 2006 at 03:04 PM UTC"
)

// Error variables for specific error conditions.
var (
	ErrNetworkFailure = errors.New("network request failed")
	ErrBadStatus      = errors.New("unexpected HTTP status")
	ErrInvalidVersion = errors.New("invalid version format")
)

// Asset represents a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size,omitempty"`
}

// Release contains the metadata of the latest published release.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name,omitempty"`
	Body        string  `json:"body,omitempty"`
	HTMLURL     string  `json:"html_url,omitempty"`
	PublishedAt string  `json:"published_at"`
	Assets      []Asset `json:"assets"`
}

// Version parses the release tag.
func (r *Release) Version() (Version, error) {
	if r == nil {
		return Version{}, fmt.Errorf("%w: no release", ErrInvalidVersion)
	}
	return ParseVersion(r.TagName)
}

// Published parses the publication timestamp. It returns false when the feed
// did not supply a valid RFC 3339 value.
func (r *Release) Published() (time.Time, bool) {
	if r == nil || strings.TrimSpace(r.PublishedAt) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, r.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// PublishedLabel formats the publication timestamp for display, falling back
// to the raw feed value.
func (r *Release) PublishedLabel() string {
	if t, ok := r.Published(); ok {
		return t.Format(publishedLayout)
	}
	if r == nil {
		return ""
	}
	return r.PublishedAt
}

// AssetFor selects the asset for the given platform.
func (r *Release) AssetFor(p Platform, app string) (Asset, bool) {
	if r == nil {
		return Asset{}, false
	}
	return SelectAsset(r.Assets, p.AssetPrefix(app))
}

// Resolver fetches release metadata from the release feed.
type Resolver struct {
	feedURL    string
	userAgent  string
	httpClient *http.Client
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets a custom HTTP client for the resolver.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent to the feed.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// UserAgent returns the User-Agent header value used for an application.
func UserAgent(app string) string {
	return app + "-updater"
}

// NewResolver creates a resolver for the given feed endpoint.
func NewResolver(feedURL string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		feedURL:   strings.TrimSpace(feedURL),
		userAgent: UserAgent(DefaultAppName),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	if r.feedURL == "" {
		r.feedURL = DefaultFeedURL
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FeedURL returns the configured feed endpoint.
func (r *Resolver) FeedURL() string {
	return r.feedURL
}

// FetchLatest performs one round trip to the feed and decodes the release.
// Every failure is coded feed_unavailable; callers treat it as "no update".
func (r *Resolver) FetchLatest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.feedURL, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeFeedUnavailable, "create request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeFeedUnavailable, "fetch release feed",
			fmt.Errorf("%w: %v", ErrNetworkFailure, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.New(apperrors.CodeFeedUnavailable, "fetch release feed",
			fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode))
	}

	var release Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&release); err != nil {
		return nil, apperrors.New(apperrors.CodeFeedUnavailable, "decode release feed", err)
	}

	return &release, nil
}
