package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// familyMap normalizes distribution family strings from gopsutil to
// canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture, and
// gopsutil for Linux distribution details.
//
// Distro detection failures are not fatal: the Info is returned with
// distro fields empty, since asset resolution needs only OS and
// architecture.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if runtime.GOOS == "linux" {
		plat, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		info.Platform = normalize(plat)
		info.Family = mapFamily(family)
		info.Version = normalize(version)
	}

	return info, nil
}

// Target maps the detected runtime values onto the release taxonomy.
// Every GOOS and GOARCH the runtime can report maps to a Target; whether
// that Target has a published build is decided later by the resolver.
func (i *Info) Target() (Target, error) {
	var t Target

	switch i.OS {
	case "darwin":
		t.OS = OsMac
	case "linux":
		t.OS = OsLinux
	case "windows":
		t.OS = OsWindows
	default:
		return Target{}, fmt.Errorf("unrecognized operating system: %s", i.OS)
	}

	switch i.Arch {
	case "amd64":
		t.Arch = ArchX8664
	case "arm64":
		t.Arch = ArchAarch64
	case "386":
		t.Arch = ArchX86
	default:
		return Target{}, fmt.Errorf("unrecognized architecture: %s", i.Arch)
	}

	return t, nil
}

// normalize lowercases and trims platform strings from gopsutil.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapFamily maps a distribution family string to a canonical family name.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalize(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
