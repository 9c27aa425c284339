package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/epics-tools/synstall/internal/cli/shared"
	"github.com/epics-tools/synstall/pkg/install"
)

// BackupDirName holds the originals of every file touched by a macro pass.
const BackupDirName = "OLD_FILES"

// UpdateResult lists what one macro pass did inside a directory.
type UpdateResult struct {
	Rewritten []string
	Relocated []string
}

// UpdateMacros applies pairs to every file directly inside targetDir.
// Each original is first copied into OLD_FILES. Files whose name ends with
// the arch suffix, ends with .local, or contains no dot are rewritten in
// place (EXAMPLE_ templates under the prefix-stripped name); anything else
// is only relocated into the backup directory.
//
// Consumption is tracked per file: a key rewrites at most one line in each
// file, and unconsumed pairs are appended at the end of that file.
func UpdateMacros(pairs []install.MacroPair, targetDir, arch string) (*UpdateResult, error) {
	info, err := os.Stat(targetDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("macro target is not a directory: %s", targetDir)
	}
	if arch == "" {
		arch = install.DefaultEpicsArch
	}

	backupDir := filepath.Join(targetDir, BackupDirName)
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return nil, err
	}

	res := &UpdateResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(targetDir, name)

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, err
		}
		perm := fi.Mode().Perm()

		if err := shared.CopyToBackup(backupDir, name, content, perm); err != nil {
			return nil, err
		}

		if !eligible(name, arch) {
			if err := os.Remove(path); err != nil {
				return nil, err
			}
			res.Relocated = append(res.Relocated, name)
			log.Debug().Str("file", name).Msg("relocated to backup, not eligible for macros")
			continue
		}

		outName := strings.TrimPrefix(name, "EXAMPLE_")
		rewritten := applyMacros(string(content), pairs)
		if err := shared.WriteFileAtomic(filepath.Join(targetDir, outName), []byte(rewritten), perm); err != nil {
			return nil, err
		}
		if outName != name {
			if err := os.Remove(path); err != nil {
				return nil, err
			}
		}
		res.Rewritten = append(res.Rewritten, outName)
		log.Debug().Str("file", outName).Msg("macros updated")
	}
	return res, nil
}

// eligible reports whether a file takes macro substitution at all.
func eligible(name, arch string) bool {
	return strings.HasSuffix(name, arch) ||
		strings.HasSuffix(name, ".local") ||
		!strings.Contains(name, ".")
}

// applyMacros rewrites one file's content against a fresh copy of the
// pair list. Lines matching an unconsumed key= are replaced by key=value;
// unmatched non-comment lines are commented out; leftover pairs are
// appended as fresh definitions.
func applyMacros(content string, pairs []install.MacroPair) string {
	consumed := make([]bool, len(pairs))

	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var sb strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)

		matched := false
		for i, pair := range pairs {
			if consumed[i] {
				continue
			}
			if strings.Contains(line, pair.Key+"=") {
				sb.WriteString(pair.Key + "=" + pair.Value + "\n")
				consumed[i] = true
				matched = true
			}
		}
		if matched {
			continue
		}
		if strings.HasPrefix(line, "#") {
			sb.WriteString(line + "\n")
		} else {
			sb.WriteString("#" + line + "\n")
		}
	}

	for i, pair := range pairs {
		if !consumed[i] {
			sb.WriteString(pair.Key + "=" + pair.Value + "\n")
		}
	}
	return sb.String()
}
