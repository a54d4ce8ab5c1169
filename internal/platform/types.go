// Package platform provides host platform detection for release-asset
// resolution.
//
// The package detects OS and architecture once from the runtime
// environment and exposes them as an injected Target value, so that
// asset-name resolution stays pure and testable without environment
// mocking. On Linux it additionally collects distribution details via
// gopsutil for diagnostics, with graceful fallback when detection fails.
package platform

import "context"

// OsKind identifies an operating system the release feed may publish
// builds for.
type OsKind string

const (
	OsMac     OsKind = "mac"
	OsLinux   OsKind = "linux"
	OsWindows OsKind = "windows"
)

// ArchKind identifies a CPU architecture the release feed may publish
// builds for.
type ArchKind string

const (
	ArchX8664   ArchKind = "x86_64"
	ArchAarch64 ArchKind = "aarch64"
	ArchX86     ArchKind = "x86"
)

// Target is the resolved (os, architecture) pair for the running host.
// It is derived once and never mutated.
type Target struct {
	OS   OsKind
	Arch ArchKind
}

// Linux distribution family constants, used for diagnostics only.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS       string // GOOS: "linux", "darwin", "windows"
	Arch     string // GOARCH: "amd64", "arm64", "386"
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
