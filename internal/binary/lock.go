package binary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// staleLockThreshold is the maximum age of a lock before it is
	// considered abandoned by a crashed process.
	staleLockThreshold = 10 * time.Minute
)

// ErrLockExists is returned when another process is already extracting
// into the same version directory.
var ErrLockExists = errors.New("provisioning lock exists: another process may be extracting this version")

// extractionLock guards a version-scoped extraction directory against a
// concurrent writer from another process. Two writers extracting into the
// same directory would corrupt it.
type extractionLock struct {
	path string
	file *os.File
}

// acquireExtractionLock takes an exclusive lock for the given version
// under workDir. Uses O_CREATE|O_EXCL for atomic creation; a stale lock
// left by a crashed process is broken once.
func acquireExtractionLock(workDir, version string) (*extractionLock, error) {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	lockPath := filepath.Join(workDir, fmt.Sprintf("%s-%s.lock", AssetPrefix, version))

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if os.IsExist(err) {
			if stale, _ := isLockStale(lockPath); stale {
				os.Remove(lockPath)
				file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
				if err != nil {
					return nil, ErrLockExists
				}
			} else {
				return nil, ErrLockExists
			}
		} else {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &extractionLock{path: lockPath, file: file}, nil
}

// Release releases the lock.
func (l *extractionLock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}

	return nil
}

// isLockStale checks if a lock file is older than the stale threshold.
func isLockStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > staleLockThreshold, nil
}
