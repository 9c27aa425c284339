package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/epics-tools/synstall/internal/cli/inject"
	"github.com/epics-tools/synstall/internal/cli/shared"
	"github.com/epics-tools/synstall/pkg/install"
)

func newApplyCmd(ctx *appContext) *cobra.Command {
	var (
		macroDirs       []string
		archiveEncoding string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Inject all fragments and update macros, recording applied state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			lockPath := filepath.Join(filepath.Dir(filepath.Clean(ctx.configurePath)), inject.LockFileName)
			lock, err := inject.LoadLock(lockPath)
			if err != nil {
				return err
			}
			now := time.Now().UTC().Format(time.RFC3339)
			out := cmd.OutOrStdout()

			injector := &inject.Injector{Config: cfg}
			for _, frag := range cfg.InjectorFiles {
				result, err := injector.Inject(frag)
				if err != nil {
					return newExitCodeError(shared.ExitInjectError, err)
				}
				digest := shared.BLAKE3Spec([]byte(frag.Contents))
				entry := lock.Targets[frag.Target]
				if result == inject.OutcomeUnchanged && entry.FragmentDigest == digest {
					fmt.Fprintf(out, "%s: unchanged since last apply\n", frag.Name)
				} else {
					fmt.Fprintf(out, "%s: %s (%s)\n", frag.Name, result, frag.Target)
				}
				entry.FragmentDigest = digest
				entry.UpdatedAt = now
				lock.Targets[frag.Target] = entry
			}

			macroDigest := macroPassDigest(cfg.Macros)
			for _, dir := range macroDirs {
				res, err := inject.UpdateMacros(cfg.Macros, dir, cfg.EpicsArch)
				if err != nil {
					return newExitCodeError(shared.ExitMacroError, err)
				}
				fmt.Fprintf(out, "%s: rewritten=%d relocated=%d\n", dir, len(res.Rewritten), len(res.Relocated))
				entry := lock.Targets[dir]
				entry.MacroDigest = macroDigest
				entry.UpdatedAt = now
				lock.Targets[dir] = entry

				if archiveEncoding != "" {
					archivePath, err := inject.ArchiveBackups(filepath.Join(dir, inject.BackupDirName), archiveEncoding, time.Now())
					if err != nil {
						return newExitCodeError(shared.ExitMacroError, err)
					}
					fmt.Fprintf(out, "%s: backups archived to %s\n", dir, archivePath)
				}
			}

			return inject.SaveLock(lockPath, lock)
		},
	}
	cmd.Flags().StringSliceVar(&macroDirs, "macro-dir", nil, "directory to run the macro pass over (repeatable)")
	cmd.Flags().StringVar(&archiveEncoding, "archive-backups", "", "archive OLD_FILES after each macro pass: tar+zstd|tar+xz")
	return cmd
}

// macroPassDigest fingerprints the macro pair list so a re-run with the
// same overrides can be reported as unchanged.
func macroPassDigest(pairs []install.MacroPair) string {
	lines := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		lines = append(lines, pair.Key+"="+pair.Value)
	}
	return shared.SHA256Spec([]byte(strings.Join(lines, "\n")))
}
