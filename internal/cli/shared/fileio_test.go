package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RELEASE")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("new\n"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic returned error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "new\n" {
		t.Fatalf("unexpected content: %q", got)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected mode: %v", info.Mode())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestCopyToBackupCreatesDir(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "OLD_FILES")
	if err := CopyToBackup(backupDir, "RELEASE", []byte("x\n"), 0o644); err != nil {
		t.Fatalf("CopyToBackup returned error: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(backupDir, "RELEASE"))
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(got) != "x\n" {
		t.Fatalf("unexpected backup content: %q", got)
	}
}

func TestDigestSpecsArePrefixed(t *testing.T) {
	content := []byte("EPICS_BASE=/epics/base\n")
	if got := BLAKE3Spec(content); !strings.HasPrefix(got, "blake3:") || len(got) != len("blake3:")+64 {
		t.Fatalf("unexpected blake3 spec: %s", got)
	}
	if got := SHA256Spec(content); !strings.HasPrefix(got, "sha256:") || len(got) != len("sha256:")+64 {
		t.Fatalf("unexpected sha256 spec: %s", got)
	}
}
