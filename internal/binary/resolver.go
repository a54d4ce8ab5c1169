package binary

import (
	"fmt"

	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

const (
	// AssetPrefix is the leading component of every release asset name.
	AssetPrefix = "shebe"
	// BinaryName is the executable contained at the root of every
	// release archive.
	BinaryName = "shebe-mcp"
)

// suffixByOS maps an asset OS token to the linkage suffix appended before
// the archive extension. Linux builds are statically linked against musl
// for portability; keeping the rule in a table keyed by token means a
// future platform with a different linkage convention is a new entry, not
// a new branch.
var suffixByOS = map[string]string{
	"darwin": "",
	"linux":  "-musl",
}

// platformTokens maps a Target onto the textual tokens used in asset
// names, rejecting unsupported platforms with a distinct reason each.
func platformTokens(os platform.OsKind, arch platform.ArchKind) (osToken, archToken string, err error) {
	switch os {
	case platform.OsMac:
		osToken = "darwin"
	case platform.OsLinux:
		osToken = "linux"
	default:
		return "", "", &UnsupportedPlatformError{OS: os, Arch: arch, Reason: ReasonOS}
	}

	switch arch {
	case platform.ArchAarch64:
		if osToken == "linux" {
			return "", "", &UnsupportedPlatformError{OS: os, Arch: arch, Reason: ReasonArchOsCombo}
		}
		archToken = "aarch64"
	case platform.ArchX8664:
		archToken = "x86_64"
	default:
		// x86 (32-bit) and anything unrecognized.
		return "", "", &UnsupportedPlatformError{OS: os, Arch: arch, Reason: ReasonArch}
	}

	return osToken, archToken, nil
}

// CheckSupported reports whether the target platform has published
// builds. It applies the same rules as ResolveAssetName without needing a
// release version, so the provisioner can reject before any network call.
func CheckSupported(target platform.Target) error {
	_, _, err := platformTokens(target.OS, target.Arch)
	return err
}

// ResolveAssetName computes the expected release asset filename for a
// version and host platform. Pure and deterministic; identical inputs
// always yield identical names.
//
// Naming rule: shebe-<version>-<os>-<arch><suffix>.tar.gz, where suffix
// comes from suffixByOS.
func ResolveAssetName(version string, os platform.OsKind, arch platform.ArchKind) (string, error) {
	osToken, archToken, err := platformTokens(os, arch)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s-%s%s.tar.gz",
		AssetPrefix, version, osToken, archToken, suffixByOS[osToken]), nil
}
