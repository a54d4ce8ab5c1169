// Package binary resolves, downloads, and prepares the shebe-mcp server
// binary for the host platform.
//
// # Pipeline
//
// Provisioning is a strictly ordered sequence: check the platform is
// supported, fetch the latest release metadata, locate the asset whose
// name the resolver computed, download the archive, extract it into a
// version-scoped directory, and mark the binary executable. The resolved
// path is cached for the lifetime of the Provisioner; failures cache
// nothing, so the next call retries the whole sequence.
//
// # Components
//
//   - ResolveAssetName: pure platform-to-asset-name mapping
//   - Provisioner: orchestration, caching, single-flight guard
//   - Downloader: HTTP download with retries and an on-disk archive cache
//   - Extractor: tar.gz extraction with path-traversal protection
//   - Verifier: optional SHA256 / GPG verification of downloaded archives
//
// # Usage
//
//	p, err := binary.NewProvisioner(binary.Config{
//	    WorkDir: workDir,
//	    Target:  target,
//	})
//	if err != nil {
//	    return err
//	}
//	path, err := p.GetOrProvision(ctx)
package binary
