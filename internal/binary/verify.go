package binary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// VerificationMethod indicates how an archive was verified.
type VerificationMethod int

const (
	// VerificationNone indicates the release published no verification
	// material.
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates checksum verification.
	VerificationSHA256
	// VerificationGPG indicates detached-signature verification.
	VerificationGPG
)

// String returns the string representation of the verification method.
func (v VerificationMethod) String() string {
	switch v {
	case VerificationSHA256:
		return "SHA256"
	case VerificationGPG:
		return "GPG"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Verifier checks downloaded archives against the verification material a
// release publishes alongside its assets: a checksums.txt file, a
// detached GPG signature, or both.
type Verifier struct {
	// keyringPath is the armored or binary public keyring used for GPG
	// verification. Empty disables GPG even when a signature exists.
	keyringPath string
}

// NewVerifier creates a verifier. keyringPath may be empty.
func NewVerifier(keyringPath string) *Verifier {
	return &Verifier{keyringPath: keyringPath}
}

// VerifyArchive verifies archivePath using whichever of checksumPath and
// signaturePath are non-empty, returning the strongest method applied.
// With neither present it returns VerificationNone and no error; the
// caller decides whether unverified archives are acceptable.
func (v *Verifier) VerifyArchive(archivePath, checksumPath, signaturePath string) (VerificationMethod, error) {
	method := VerificationNone

	if checksumPath != "" {
		if err := v.verifySHA256(archivePath, checksumPath); err != nil {
			return method, fmt.Errorf("SHA256 verification: %w", err)
		}
		method = VerificationSHA256
	}

	if signaturePath != "" && v.keyringPath != "" {
		if err := v.verifyGPG(archivePath, signaturePath); err != nil {
			return method, fmt.Errorf("GPG verification: %w", err)
		}
		method = VerificationGPG
	}

	return method, nil
}

// verifySHA256 compares the archive's digest against the entry for its
// filename in a checksums file.
func (v *Verifier) verifySHA256(archivePath, checksumPath string) error {
	actual, err := calculateSHA256(archivePath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	expected, err := findChecksum(checksumPath, filepath.Base(archivePath))
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s:\nactual:   %s\nexpected: %s",
			filepath.Base(archivePath), actual, expected)
	}

	return nil
}

// verifyGPG checks a detached signature over the archive, trying armored
// then binary signature encodings.
func (v *Verifier) verifyGPG(archivePath, signaturePath string) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, archiveFile, sigFile, nil)
	if err != nil {
		archiveFile.Seek(0, io.SeekStart)
		sigFile.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, archiveFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring reads the configured public keyring, armored or binary.
func (v *Verifier) loadKeyring() (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		keyringFile.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 returns the hex-encoded SHA256 digest of a file.
func calculateSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum locates the digest for filename in a checksums file.
// Format: "abc123def456  filename.tar.gz", one entry per line.
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		if parts[1] == filename || filepath.Base(parts[1]) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
