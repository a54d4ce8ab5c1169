package binary

import (
	"fmt"
	"strings"

	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

// Rejection reasons for UnsupportedPlatformError. Each unsupported
// combination keeps its own reason so callers can tell a missing OS build
// apart from a missing architecture or combination build.
const (
	ReasonOS          = "os"
	ReasonArch        = "arch"
	ReasonArchOsCombo = "arch-os-combo"
)

// UnsupportedPlatformError reports that no build is published for the
// host platform. Fatal; never retried.
type UnsupportedPlatformError struct {
	OS     platform.OsKind
	Arch   platform.ArchKind
	Reason string
}

func (e *UnsupportedPlatformError) Error() string {
	switch e.Reason {
	case ReasonOS:
		return fmt.Sprintf("shebe does not publish builds for %s", e.OS)
	case ReasonArchOsCombo:
		return fmt.Sprintf("shebe does not publish builds for %s on %s", e.Arch, e.OS)
	default:
		return fmt.Sprintf("shebe does not publish builds for %s architecture", e.Arch)
	}
}

// AssetNotFoundError reports that the resolved asset name is absent from
// the release's asset list. This indicates a naming mismatch between
// resolver and feed, not a transient condition.
type AssetNotFoundError struct {
	Name      string
	Available []string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no release asset matching %q (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}
