package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resolved modules in manifest order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tPATH\tSOURCE\tCLONE\tBUILD")
			for _, mod := range cfg.Modules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					mod.Name, mod.Version, mod.AbsPath, mod.URLType,
					yesNo(mod.Clone), yesNo(mod.Build))
			}
			return w.Flush()
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "YES"
	}
	return "NO"
}
