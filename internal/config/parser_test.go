package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

// mockDetector is a test implementation of platform.Detector.
type mockDetector struct {
	info *platform.Info
	err  error
}

func (m *mockDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return m.info, m.err
}

func TestParser_ParseString_Minimal(t *testing.T) {
	luaCode := `
		shebe = {
			version = "v0.3.1",
		}
	`

	parser := NewParser(nil)
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if config.Version != "v0.3.1" {
		t.Errorf("Version = %s, want v0.3.1", config.Version)
	}
	if config.Repo != "" {
		t.Errorf("Repo = %s, want empty", config.Repo)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	luaCode := `
		shebe = {
			repo = "rhobimd-oss/shebe",
			version = "v0.3.1",
			work_dir = "/var/lib/shebe",
			require_verified = true,
			keyring = "/etc/shebe/release-keys.gpg",
		}
	`

	parser := NewParser(nil)
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if config.Repo != "rhobimd-oss/shebe" {
		t.Errorf("Repo = %s, want rhobimd-oss/shebe", config.Repo)
	}
	if config.Version != "v0.3.1" {
		t.Errorf("Version = %s, want v0.3.1", config.Version)
	}
	if config.WorkDir != "/var/lib/shebe" {
		t.Errorf("WorkDir = %s, want /var/lib/shebe", config.WorkDir)
	}
	if !config.RequireVerified {
		t.Error("RequireVerified = false, want true")
	}
	if config.Keyring != "/etc/shebe/release-keys.gpg" {
		t.Errorf("Keyring = %s, want /etc/shebe/release-keys.gpg", config.Keyring)
	}
}

func TestParser_ParseString_PlatformConditional(t *testing.T) {
	luaCode := `
		shebe = {
			version = platform.is_macos and "v0.3.1" or "v0.2.0",
		}
	`

	tests := []struct {
		name     string
		info     *platform.Info
		expected string
	}{
		{
			name:     "macos",
			info:     &platform.Info{OS: "darwin", Arch: "arm64"},
			expected: "v0.3.1",
		},
		{
			name:     "linux",
			info:     &platform.Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: "debian"},
			expected: "v0.2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(&mockDetector{info: tt.info})
			config, err := parser.ParseString(context.Background(), luaCode)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}

			if config.Version != tt.expected {
				t.Errorf("Version = %s, want %s", config.Version, tt.expected)
			}
		})
	}
}

func TestParser_ParseString_DetectorError(t *testing.T) {
	parser := NewParser(&mockDetector{err: errors.New("detection broke")})
	_, err := parser.ParseString(context.Background(), `shebe = {}`)
	if err == nil {
		t.Fatal("expected detector error to propagate")
	}
	if !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		luaCode string
		detail  string
	}{
		{
			name:    "syntax_error",
			luaCode: `shebe = {`,
			detail:  "Lua syntax error",
		},
		{
			name:    "missing_table",
			luaCode: `x = 1`,
			detail:  "missing or invalid 'shebe' table",
		},
		{
			name:    "table_is_string",
			luaCode: `shebe = "not a table"`,
			detail:  "missing or invalid 'shebe' table",
		},
		{
			name:    "invalid_repo",
			luaCode: `shebe = { repo = "not-a-slug" }`,
			detail:  "config validation failed",
		},
		{
			name:    "invalid_version",
			luaCode: `shebe = { version = "0.3.1" }`,
			detail:  "config validation failed",
		},
		{
			name:    "work_dir_traversal",
			luaCode: `shebe = { work_dir = "../../etc" }`,
			detail:  "config validation failed",
		},
	}

	parser := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString(context.Background(), tt.luaCode)
			if err == nil {
				t.Fatal("expected error but got none")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}

			if !strings.Contains(parseErr.Message, tt.detail) && !strings.Contains(parseErr.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", parseErr.Error(), tt.detail)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		field   string
	}{
		{name: "empty_config", config: Config{}},
		{name: "valid_full", config: Config{Repo: "owner/name", Version: "v1.2.3", WorkDir: "/tmp/shebe"}},
		{name: "prerelease_version", config: Config{Version: "v1.2.3-rc.1"}},
		{name: "bad_repo", config: Config{Repo: "owner/name/extra"}, wantErr: true, field: "repo"},
		{name: "bad_version", config: Config{Version: "1.2.3"}, wantErr: true, field: "version"},
		{name: "traversal_work_dir", config: Config{WorkDir: "foo/../../bar"}, wantErr: true, field: "work_dir"},
		{name: "traversal_keyring", config: Config{Keyring: "../keys.gpg"}, wantErr: true, field: "keyring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field = %s, want %s", valErr.Field, tt.field)
			}
		})
	}
}

func TestDefaultWorkDir(t *testing.T) {
	dir := DefaultWorkDir()
	if dir == "" {
		t.Fatal("DefaultWorkDir returned empty path")
	}
	if !strings.HasSuffix(dir, "shebe") {
		t.Errorf("DefaultWorkDir = %s, want a shebe-suffixed path", dir)
	}
}
