package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse the manifest and report the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "install location: %s\n", cfg.InstallLocation)
			fmt.Fprintf(out, "modules: %d\n", len(cfg.Modules))
			fmt.Fprintf(out, "injector files: %d\n", len(cfg.InjectorFiles))
			fmt.Fprintf(out, "macros: %d\n", len(cfg.Macros))
			if cfg.BasePath != "" {
				fmt.Fprintf(out, "base path: %s\n", cfg.BasePath)
			}
			if cfg.SupportPath != "" {
				fmt.Fprintf(out, "support path: %s\n", cfg.SupportPath)
			}
			if cfg.ADPath != "" {
				fmt.Fprintf(out, "areaDetector path: %s\n", cfg.ADPath)
			}
			return nil
		},
	}
}
