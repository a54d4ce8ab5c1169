package binary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rhobimd-oss/shebe-releases/internal/platform"
	"github.com/rhobimd-oss/shebe-releases/internal/release"
)

const (
	// DefaultRepo is the repository whose release feed publishes
	// shebe-mcp builds.
	DefaultRepo = "rhobimd-oss/shebe"

	// checksumAssetName is the conventional name of the checksum
	// manifest attached to a release, when one exists.
	checksumAssetName = "checksums.txt"
)

// ReleaseFeed is the provisioner's view of the release metadata source.
type ReleaseFeed interface {
	LatestRelease(ctx context.Context, repo string) (*release.Release, error)
	ReleaseByTag(ctx context.Context, repo, tag string) (*release.Release, error)
}

// Config holds configuration for the provisioner.
type Config struct {
	// WorkDir is the directory all downloads and extractions happen
	// under. Required.
	WorkDir string
	// Target is the resolved host platform. Required.
	Target platform.Target
	// Repo overrides the release repository (default DefaultRepo).
	Repo string
	// Version pins an exact release tag; empty means latest.
	Version string
	// RequireVerified rejects releases that publish no checksums or
	// signatures. Off by default: shebe releases currently ship neither.
	RequireVerified bool
	// KeyringPath enables GPG verification when the release carries a
	// detached signature.
	KeyringPath string
	// Feed overrides the release feed (default: GitHub API client).
	Feed ReleaseFeed
	// Logger receives provisioning progress. Defaults to a no-op.
	Logger Logger
}

// Provisioner produces a ready-to-execute shebe-mcp path for the host,
// fetching and caching as needed. The resolved path is cached for the
// Provisioner's lifetime; a failed attempt caches nothing.
type Provisioner struct {
	workDir         string
	target          platform.Target
	repo            string
	version         string
	requireVerified bool
	feed            ReleaseFeed
	downloader      *Downloader
	extractor       *Extractor
	verifier        *Verifier
	logger          Logger

	group singleflight.Group

	mu         sync.Mutex
	cachedPath string
}

// NewProvisioner creates a provisioner.
func NewProvisioner(cfg Config) (*Provisioner, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("WorkDir is required")
	}

	repo := cfg.Repo
	if repo == "" {
		repo = DefaultRepo
	}

	feed := cfg.Feed
	if feed == nil {
		feed = release.NewClient()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Provisioner{
		workDir:         cfg.WorkDir,
		target:          cfg.Target,
		repo:            repo,
		version:         cfg.Version,
		requireVerified: cfg.RequireVerified,
		feed:            feed,
		downloader:      NewDownloader(filepath.Join(cfg.WorkDir, "cache")),
		extractor:       NewExtractor(),
		verifier:        NewVerifier(cfg.KeyringPath),
		logger:          logger,
	}, nil
}

// GetOrProvision returns the path to a runnable shebe-mcp binary,
// performing the full resolve/fetch/extract sequence on first call and
// the cached path thereafter. Concurrent first-time callers collapse onto
// a single provisioning sequence and all observe the same result.
func (p *Provisioner) GetOrProvision(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.cachedPath != "" {
		path := p.cachedPath
		p.mu.Unlock()
		return path, nil
	}
	p.mu.Unlock()

	v, err, _ := p.group.Do(p.repo, func() (interface{}, error) {
		return p.provision(ctx)
	})
	if err != nil {
		return "", err
	}

	path := v.(string)
	p.mu.Lock()
	p.cachedPath = path
	p.mu.Unlock()

	return path, nil
}

// provision runs the full sequence: support check, metadata fetch, asset
// lookup, download, verify, extract, chmod. Each step's failure aborts
// the rest and surfaces unchanged.
func (p *Provisioner) provision(ctx context.Context) (string, error) {
	// Platform rejection short-circuits before any network call.
	if err := CheckSupported(p.target); err != nil {
		return "", err
	}

	var rel *release.Release
	var err error
	if p.version != "" {
		rel, err = p.feed.ReleaseByTag(ctx, p.repo, p.version)
	} else {
		rel, err = p.feed.LatestRelease(ctx, p.repo)
	}
	if err != nil {
		return "", err
	}

	assetName, err := ResolveAssetName(rel.Version, p.target.OS, p.target.Arch)
	if err != nil {
		return "", err
	}

	p.logger.Debug("resolved release asset", "version", rel.Version, "asset", assetName)

	asset := findAsset(rel.Assets, assetName)
	if asset == nil {
		return "", &AssetNotFoundError{Name: assetName, Available: assetNames(rel.Assets)}
	}

	// Guard the version directory against a writer in another process.
	lock, err := acquireExtractionLock(p.workDir, rel.Version)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	archivePath, err := p.downloader.DownloadAsset(ctx, asset.DownloadURL, rel.Version, assetName)
	if err != nil {
		return "", err
	}

	if err := p.verifyArchive(ctx, rel, assetName, archivePath); err != nil {
		return "", err
	}

	versionDir := filepath.Join(p.workDir, fmt.Sprintf("%s-%s", AssetPrefix, rel.Version))
	if err := p.extractor.ExtractTarGz(archivePath, versionDir); err != nil {
		// The cached archive is corrupt or truncated; drop it so the
		// next attempt re-downloads instead of failing forever.
		os.Remove(archivePath)
		return "", fmt.Errorf("extract %s: %w", assetName, err)
	}

	binaryPath := filepath.Join(versionDir, BinaryName)
	if err := SetExecutable(binaryPath); err != nil {
		return "", err
	}

	if err := checkExecutableFile(binaryPath); err != nil {
		return "", err
	}

	p.logger.Info("provisioned binary", "version", rel.Version, "path", binaryPath)
	return binaryPath, nil
}

// verifyArchive applies whatever verification material the release
// publishes. Without RequireVerified an unverifiable release passes with
// a warning.
func (p *Provisioner) verifyArchive(ctx context.Context, rel *release.Release, assetName, archivePath string) error {
	var checksumPath, signaturePath string

	if a := findAsset(rel.Assets, checksumAssetName); a != nil {
		path, err := p.downloader.DownloadAsset(ctx, a.DownloadURL, rel.Version, a.Name)
		if err != nil {
			return err
		}
		checksumPath = path
	}

	if a := findAsset(rel.Assets, assetName+".sig"); a != nil {
		path, err := p.downloader.DownloadAsset(ctx, a.DownloadURL, rel.Version, a.Name)
		if err != nil {
			return err
		}
		signaturePath = path
	}

	method, err := p.verifier.VerifyArchive(archivePath, checksumPath, signaturePath)
	if err != nil {
		// A failed check must not leave a poisoned archive in the cache.
		os.Remove(archivePath)
		return err
	}

	if method == VerificationNone {
		if p.requireVerified {
			return fmt.Errorf("release %s publishes no checksums or signatures", rel.Version)
		}
		p.logger.Warn("archive is unverified", "asset", assetName)
		return nil
	}

	p.logger.Debug("archive verified", "asset", assetName, "method", method.String())
	return nil
}

// checkExecutableFile confirms path is an existing, executable regular
// file.
func checkExecutableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat binary: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("binary %s is not a regular file", path)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("binary %s is not executable", path)
	}

	return nil
}

func findAsset(assets []release.Asset, name string) *release.Asset {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i]
		}
	}
	return nil
}

func assetNames(assets []release.Asset) []string {
	names := make([]string, 0, len(assets))
	for _, a := range assets {
		names = append(names, a.Name)
	}
	return names
}
