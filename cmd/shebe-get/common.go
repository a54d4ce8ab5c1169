package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rhobimd-oss/shebe-releases/internal/binary"
	"github.com/rhobimd-oss/shebe-releases/internal/config"
	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

// provisionOpts are the flags shared by the install and run commands.
// Flags override the config file, which overrides built-in defaults.
type provisionOpts struct {
	configPath      string
	repo            string
	version         string
	workDir         string
	keyring         string
	requireVerified bool
	verbose         bool
}

func registerProvisionFlags(fs *flag.FlagSet, o *provisionOpts) {
	fs.StringVar(&o.configPath, "config", "", "path to a shebe.lua config file")
	fs.StringVar(&o.repo, "repo", "", "release repository (owner/name)")
	fs.StringVar(&o.version, "pin", "", "pin an exact release tag (e.g. v0.3.1)")
	fs.StringVar(&o.workDir, "work-dir", "", "directory for downloads and extracted builds")
	fs.StringVar(&o.keyring, "keyring", "", "GPG public keyring for signature verification")
	fs.BoolVar(&o.requireVerified, "require-verified", false, "reject releases without checksums or signatures")
	fs.BoolVar(&o.verbose, "verbose", false, "enable debug logging")
}

// loadSettings merges the config file (explicit path or shebe.lua next to
// the working directory) under the flag values.
func loadSettings(ctx context.Context, detector platform.Detector, o *provisionOpts) (*config.Config, error) {
	cfg := &config.Config{}

	path := o.configPath
	if path == "" {
		candidate := filepath.Join(".", "shebe.lua")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		parser := config.NewParser(detector)
		parsed, err := parser.ParseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	if o.repo != "" {
		cfg.Repo = o.repo
	}
	if o.version != "" {
		cfg.Version = o.version
	}
	if o.workDir != "" {
		cfg.WorkDir = o.workDir
	}
	if o.keyring != "" {
		cfg.Keyring = o.keyring
	}
	if o.requireVerified {
		cfg.RequireVerified = true
	}

	if cfg.WorkDir == "" {
		cfg.WorkDir = config.DefaultWorkDir()
	}

	return cfg, nil
}

// newProvisioner detects the host platform and builds a provisioner from
// merged settings.
func newProvisioner(ctx context.Context, o *provisionOpts) (*binary.Provisioner, error) {
	detector := platform.NewDetector()

	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	target, err := info.Target()
	if err != nil {
		return nil, err
	}

	cfg, err := loadSettings(ctx, detector, o)
	if err != nil {
		return nil, err
	}

	return binary.NewProvisioner(binary.Config{
		WorkDir:         cfg.WorkDir,
		Target:          target,
		Repo:            cfg.Repo,
		Version:         cfg.Version,
		RequireVerified: cfg.RequireVerified,
		KeyringPath:     cfg.Keyring,
		Logger:          newLogrusLogger(o.verbose),
	})
}
