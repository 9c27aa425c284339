package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/epics-tools/synstall/internal/cli/inject"
	"github.com/epics-tools/synstall/internal/cli/shared"
)

func newUpdateMacrosCmd(ctx *appContext) *cobra.Command {
	var archiveEncoding string
	cmd := &cobra.Command{
		Use:   "update-macros <target-dir>",
		Short: "Apply macro overrides to the files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			targetDir := args[0]
			res, err := inject.UpdateMacros(cfg.Macros, targetDir, cfg.EpicsArch)
			if err != nil {
				return newExitCodeError(shared.ExitMacroError, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rewritten=%d relocated=%d\n", len(res.Rewritten), len(res.Relocated))

			if archiveEncoding != "" {
				backupDir := filepath.Join(targetDir, inject.BackupDirName)
				archivePath, err := inject.ArchiveBackups(backupDir, archiveEncoding, time.Now())
				if err != nil {
					return newExitCodeError(shared.ExitMacroError, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "backups archived: %s\n", archivePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&archiveEncoding, "archive-backups", "", "archive OLD_FILES after the pass: tar+zstd|tar+xz")
	return cmd
}
