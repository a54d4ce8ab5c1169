package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout is the HTTP request timeout for archive downloads.
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the number of download retries.
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "shebe-releases/1.0"
)

// Downloader fetches release assets over HTTP with retry logic and an
// on-disk cache keyed by release version. The retries live here, in the
// collaborator; the provisioning sequence itself never retries a failed
// step.
type Downloader struct {
	client    *http.Client
	cacheDir  string
	userAgent string
	retries   int
}

// NewDownloader creates a downloader caching into cacheDir.
func NewDownloader(cacheDir string) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub asset downloads bounce through a signed
				// storage URL; cap the chain anyway.
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cacheDir:  cacheDir,
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
	}
}

// DownloadAsset downloads a release asset into the cache, returning the
// cached path. A previously downloaded asset of the same version and
// filename is reused without a network round trip.
func (d *Downloader) DownloadAsset(ctx context.Context, url, version, filename string) (string, error) {
	cachePath := filepath.Join(d.cacheDir, version, filename)

	if fileExists(cachePath) {
		return cachePath, nil
	}

	if err := d.DownloadToFile(ctx, url, cachePath); err != nil {
		return "", fmt.Errorf("download %s: %w", filename, err)
	}

	return cachePath, nil
}

// DownloadToFile downloads a URL to destPath, retrying transient
// failures with exponential backoff.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s.
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt, writing to a temp file
// and renaming into place so a failed transfer never leaves a partial
// file at destPath.
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// fileExists checks if a file exists and is not empty.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
