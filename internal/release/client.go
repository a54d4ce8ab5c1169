// Package release fetches release metadata from the GitHub Releases API.
//
// The provisioner treats this package as the source of truth for
// available versions and their downloadable assets. Failures reaching the
// feed are reported as *FeedError and propagated unchanged; the caller
// owns any retry policy.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultAPIBase is the GitHub REST API endpoint.
	DefaultAPIBase = "https://api.github.com"
	// DefaultTimeout is the HTTP request timeout for metadata fetches.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "shebe-releases/1.0"
)

// Release identifies one published version and its downloadable assets.
// Immutable once fetched.
type Release struct {
	// Version is the release tag, expected format v<major>.<minor>.<patch>.
	Version string `json:"tag_name"`
	// Assets are the artifacts attached to the release, name-unique.
	Assets []Asset `json:"assets"`
}

// Asset is one downloadable artifact attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// FeedError reports a failure reaching or decoding the release feed.
type FeedError struct {
	Repo       string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("release feed %s: %v (HTTP %d)", e.Repo, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("release feed %s: %v", e.Repo, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// Client queries the GitHub Releases API.
type Client struct {
	HTTPClient *http.Client
	APIBase    string
	UserAgent  string
	// Token is sent as a bearer token when non-empty. Unauthenticated
	// requests work but are rate-limited aggressively by GitHub.
	Token string
}

// NewClient creates a release feed client with defaults. The GITHUB_TOKEN
// environment variable, when set, is used for authentication.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		APIBase:    DefaultAPIBase,
		UserAgent:  DefaultUserAgent,
		Token:      os.Getenv("GITHUB_TOKEN"),
	}
}

// LatestRelease returns the newest published release for repo
// ("owner/name").
func (c *Client) LatestRelease(ctx context.Context, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.APIBase, repo)
	return c.fetchRelease(ctx, repo, url)
}

// ReleaseByTag returns the release published under an exact tag.
func (c *Client) ReleaseByTag(ctx context.Context, repo, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.APIBase, repo, tag)
	return c.fetchRelease(ctx, repo, url)
}

func (c *Client) fetchRelease(ctx context.Context, repo, url string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FeedError{Repo: repo, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FeedError{Repo: repo, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedError{
			Repo:       repo,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("GET %s: unexpected status", url),
		}
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, &FeedError{Repo: repo, Err: fmt.Errorf("decode release: %w", err)}
	}

	if rel.Version == "" {
		return nil, &FeedError{Repo: repo, Err: fmt.Errorf("release has no tag name")}
	}

	return &rel, nil
}
