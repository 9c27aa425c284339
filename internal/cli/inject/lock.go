package inject

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LockFileName is written next to the configure directory by apply.
const LockFileName = "synstall.lock"

// LockFile tracks the last applied state for unchanged-detection.
type LockFile struct {
	Version string               `yaml:"version"`
	Targets map[string]LockEntry `yaml:"targets"`
}

// LockEntry stores applied digests for one target path.
type LockEntry struct {
	FragmentDigest string `yaml:"fragment_digest,omitempty"`
	MacroDigest    string `yaml:"macro_digest,omitempty"`
	UpdatedAt      string `yaml:"updated_at"`
}

// LoadLock reads a lockfile, returning an empty one when absent.
func LoadLock(path string) (*LockFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LockFile{Version: "v1", Targets: map[string]LockEntry{}}, nil
		}
		return nil, err
	}
	var lock LockFile
	if err := yaml.Unmarshal(b, &lock); err != nil {
		return nil, err
	}
	if lock.Version == "" {
		lock.Version = "v1"
	}
	if lock.Targets == nil {
		lock.Targets = map[string]LockEntry{}
	}
	return &lock, nil
}

// SaveLock writes the lockfile.
func SaveLock(path string, lock *LockFile) error {
	if lock.Version == "" {
		lock.Version = "v1"
	}
	if lock.Targets == nil {
		lock.Targets = map[string]LockEntry{}
	}
	b, err := yaml.Marshal(lock)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
