package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epics-tools/synstall/internal/cli/inject"
	"github.com/epics-tools/synstall/internal/cli/shared"
)

func newInjectCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inject",
		Short: "Inject configuration fragments into their target files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			injector := &inject.Injector{Config: cfg}
			outcomes, err := injector.InjectAll()
			for _, o := range outcomes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", o.Fragment, o.Result, o.Target)
			}
			if err != nil {
				return newExitCodeError(shared.ExitInjectError, err)
			}
			return nil
		},
	}
}
