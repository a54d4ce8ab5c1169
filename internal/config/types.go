// Package config parses the optional shebe.lua settings file that tunes
// binary provisioning: which repository to pull releases from, a pinned
// version, where to keep downloaded builds, and verification policy.
//
// Configs run in a sandboxed Lua VM with a read-only platform table
// injected, so a single file can pin different versions per OS or
// architecture.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

// Config holds the provisioning settings a shebe.lua file can set. Zero
// values mean "use the default".
type Config struct {
	// Repo is the GitHub repository publishing releases, "owner/name".
	Repo string `json:"repo,omitempty"`

	// Version pins an exact release tag. Empty tracks the latest release.
	Version string `json:"version,omitempty"`

	// WorkDir is where archives and extracted builds live.
	WorkDir string `json:"work_dir,omitempty"`

	// RequireVerified rejects releases without checksums or signatures.
	RequireVerified bool `json:"require_verified,omitempty"`

	// Keyring is a GPG public keyring for signature verification.
	Keyring string `json:"keyring,omitempty"`
}

// DefaultWorkDir returns the per-user data directory used when no
// work_dir is configured.
func DefaultWorkDir() string {
	return filepath.Join(xdg.DataHome, "shebe")
}

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

var (
	// repoPattern matches "owner/name" GitHub repository slugs.
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+/[A-Za-z0-9._-]+$`)

	// versionPattern matches release tags of the form v<major>.<minor>.<patch>,
	// optionally with a pre-release suffix.
	versionPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[A-Za-z0-9.-]+)?$`)
)

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if c.Repo != "" && !repoPattern.MatchString(c.Repo) {
		return &ValidationError{
			Field:   "repo",
			Message: fmt.Sprintf("invalid repository %q (expected: owner/name)", c.Repo),
		}
	}

	if c.Version != "" && !versionPattern.MatchString(c.Version) {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("invalid version %q (expected: v<major>.<minor>.<patch>)", c.Version),
		}
	}

	if c.WorkDir != "" {
		if err := validateDirPath(c.WorkDir); err != nil {
			return &ValidationError{Field: "work_dir", Message: err.Error()}
		}
	}

	if c.Keyring != "" {
		if err := validateDirPath(c.Keyring); err != nil {
			return &ValidationError{Field: "keyring", Message: err.Error()}
		}
	}

	return nil
}

// validateDirPath rejects paths with traversal components. Tilde
// expansion happens later, at use.
func validateDirPath(path string) error {
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}
	return nil
}
