package binary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireExtractionLock(t *testing.T) {
	workDir := t.TempDir()

	lock, err := acquireExtractionLock(workDir, "v0.3.1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	lockPath := filepath.Join(workDir, "shebe-v0.3.1.lock")
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock file still exists after release")
	}
}

func TestAcquireExtractionLockConflict(t *testing.T) {
	workDir := t.TempDir()

	first, err := acquireExtractionLock(workDir, "v0.3.1")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer first.Release()

	_, err = acquireExtractionLock(workDir, "v0.3.1")
	if !errors.Is(err, ErrLockExists) {
		t.Errorf("expected ErrLockExists, got %v", err)
	}

	// A different version is a different lock.
	other, err := acquireExtractionLock(workDir, "v0.4.0")
	if err != nil {
		t.Fatalf("other version acquire failed: %v", err)
	}
	other.Release()
}

func TestAcquireExtractionLockBreaksStale(t *testing.T) {
	workDir := t.TempDir()
	lockPath := filepath.Join(workDir, "shebe-v0.3.1.lock")

	if err := os.WriteFile(lockPath, []byte("pid=1\n"), 0600); err != nil {
		t.Fatalf("write stale lock: %v", err)
	}

	old := time.Now().Add(-staleLockThreshold - time.Minute)
	if err := os.Chtimes(lockPath, old, old); err != nil {
		t.Fatalf("backdate lock: %v", err)
	}

	lock, err := acquireExtractionLock(workDir, "v0.3.1")
	if err != nil {
		t.Fatalf("expected stale lock to be broken, got: %v", err)
	}
	lock.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	workDir := t.TempDir()

	lock, err := acquireExtractionLock(workDir, "v0.3.1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
}
