package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestInstanceLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "focustracker.lock")

	first, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("acquire first: %v", err)
	}

	if _, err := AcquireInstanceLock(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	second, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	defer second.Release()

	if second.Path() != path {
		t.Fatalf("expected path %s, got %s", path, second.Path())
	}
}
