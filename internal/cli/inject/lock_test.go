package inject

import (
	"path/filepath"
	"testing"
)

func TestLoadLockMissingFile(t *testing.T) {
	lock, err := LoadLock(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("LoadLock returned error: %v", err)
	}
	if lock.Version != "v1" || len(lock.Targets) != 0 {
		t.Fatalf("unexpected empty lock: %+v", lock)
	}
}

func TestLockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	lock := &LockFile{
		Version: "v1",
		Targets: map[string]LockEntry{
			"/epics/test/commonPlugins.cmd": {
				FragmentDigest: "blake3:abc",
				UpdatedAt:      "2026-08-31T12:00:00Z",
			},
		},
	}
	if err := SaveLock(path, lock); err != nil {
		t.Fatalf("SaveLock returned error: %v", err)
	}
	loaded, err := LoadLock(path)
	if err != nil {
		t.Fatalf("LoadLock returned error: %v", err)
	}
	entry := loaded.Targets["/epics/test/commonPlugins.cmd"]
	if entry.FragmentDigest != "blake3:abc" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
