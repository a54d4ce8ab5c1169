package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

// Parser evaluates shebe.lua config files in a sandboxed VM with the
// host platform table injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a config parser. detector may be nil, in which case
// no platform table is injected and configs cannot branch on the host.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile parses a Lua config from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // user-facing message
	Detail  string // raw Lua error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "shebe" table out of an evaluated Lua
// state. An absent table is an error; a config file that sets nothing
// should not exist.
func extractConfig(L *lua.LState) (*Config, error) {
	shebeTable := L.GetGlobal("shebe")
	if shebeTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'shebe' table",
			Detail:  fmt.Sprintf("expected table, got %s", shebeTable.Type()),
		}
	}

	config := &Config{}
	table := shebeTable.(*lua.LTable)

	if v := table.RawGetString("repo"); v.Type() == lua.LTString {
		config.Repo = v.String()
	}

	if v := table.RawGetString("version"); v.Type() == lua.LTString {
		config.Version = v.String()
	}

	if v := table.RawGetString("work_dir"); v.Type() == lua.LTString {
		config.WorkDir = v.String()
	}

	if v := table.RawGetString("require_verified"); v.Type() == lua.LTBool {
		config.RequireVerified = bool(v.(lua.LBool))
	}

	if v := table.RawGetString("keyring"); v.Type() == lua.LTString {
		config.Keyring = v.String()
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// FormatError formats a ParseError for user display. Verbose keeps the
// raw Lua error; otherwise the stack traceback is trimmed.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
