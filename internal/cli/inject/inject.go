package inject

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/epics-tools/synstall/internal/cli/shared"
	"github.com/epics-tools/synstall/pkg/install"
)

// Injection outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeUnchanged = "unchanged"
)

// Outcome describes one fragment injection.
type Outcome struct {
	Fragment string
	Target   string
	Result   string
}

// Injector appends fragment contents into generated build files between
// named marker lines. Targets must already exist; injection never creates
// them. Re-injecting a fragment replaces its previous marker block instead
// of appending a second copy.
type Injector struct {
	Config *install.InstallConfiguration
}

// InjectAll runs every fragment attached to the configuration, in load
// order. It stops on the first failure.
func (in *Injector) InjectAll() ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(in.Config.InjectorFiles))
	for _, frag := range in.Config.InjectorFiles {
		result, err := in.Inject(frag)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Fragment: frag.Name, Target: frag.Target, Result: result})
	}
	return outcomes, nil
}

// Inject writes frag's content block into its resolved target.
func (in *Injector) Inject(frag *install.InjectorFile) (string, error) {
	info, err := os.Stat(frag.Target)
	if err != nil {
		return "", fmt.Errorf("%w: %s (fragment %s)", install.ErrTargetNotFound, frag.Target, frag.Name)
	}

	current, err := os.ReadFile(frag.Target)
	if err != nil {
		return "", err
	}

	kept, prevBlock := stripBlock(string(current), frag.Name)
	block := buildBlock(frag)
	if prevBlock == block {
		log.Debug().Str("target", frag.Target).Str("fragment", frag.Name).Msg("inject block unchanged")
		return OutcomeUnchanged, nil
	}

	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	if err := shared.WriteFileAtomic(frag.Target, []byte(kept+block), info.Mode().Perm()); err != nil {
		return "", err
	}
	log.Info().Str("target", frag.Target).Str("fragment", frag.Name).Msg("injected")
	return OutcomeApplied, nil
}

func buildBlock(frag *install.InjectorFile) string {
	contents := frag.Contents
	if contents != "" && !strings.HasSuffix(contents, "\n") {
		contents += "\n"
	}
	return startMarker(frag.Name) + "\n" + contents + endMarker(frag.Name) + "\n"
}

// stripBlock removes a previously injected block for name and returns the
// remaining content plus the removed block (empty when none was present).
func stripBlock(content, name string) (kept, block string) {
	start := startMarker(name)
	end := endMarker(name)

	var keptLines, blockLines []string
	inBlock := false
	lines := strings.Split(content, "\n")
	// Split leaves a trailing empty element for newline-terminated files.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		switch {
		case !inBlock && line == start:
			inBlock = true
			blockLines = append(blockLines, line)
		case inBlock:
			blockLines = append(blockLines, line)
			if line == end {
				inBlock = false
			}
		default:
			keptLines = append(keptLines, line)
		}
	}

	if len(keptLines) > 0 {
		kept = strings.Join(keptLines, "\n") + "\n"
	}
	if len(blockLines) > 0 {
		block = strings.Join(blockLines, "\n") + "\n"
	}
	return kept, block
}

func startMarker(name string) string {
	return "# ------------The following was auto-generated by synstall (" + name + ")-------"
}

func endMarker(name string) string {
	return "# --------------------------Auto-generated end (" + name + ")----------------------"
}
