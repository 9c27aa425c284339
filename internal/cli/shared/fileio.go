package shared

import (
	"os"
	"path/filepath"
)

// CopyToBackup writes content under backupDir with the file's original
// name, creating backupDir if needed. Re-running overwrites the previous
// backup of the same file.
func CopyToBackup(backupDir, name string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(backupDir, name), content, perm)
}

// WriteFileAtomic writes content to a temp file in path's directory and
// renames it into place, so an interrupted run never leaves a half-written
// target behind.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
