package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/epics-tools/synstall/internal/cli/parser"
	"github.com/epics-tools/synstall/internal/cli/shared"
	"github.com/epics-tools/synstall/internal/logger"
	"github.com/epics-tools/synstall/pkg/install"
)

type appContext struct {
	configurePath string
	manifestName  string
	forceInstall  string
	allowIllegal  bool
	arch          string
	verbose       bool
	jsonLog       bool
}

func NewRootCmd(version string) *cobra.Command {
	ctx := &appContext{}
	cmd := &cobra.Command{
		Use:   "synstall",
		Short: "Manifest-driven EPICS/areaDetector install configuration",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Set(ctx.verbose)
			if ctx.jsonLog {
				logger.UseJSONLogging()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&ctx.configurePath, "configure", "configure", "path to configure directory")
	cmd.PersistentFlags().StringVar(&ctx.manifestName, "manifest", parser.DefaultManifestName, "manifest filename inside the configure directory")
	cmd.PersistentFlags().StringVar(&ctx.forceInstall, "install-location", "", "override the INSTALL= path from the manifest")
	cmd.PersistentFlags().BoolVar(&ctx.allowIllegal, "allow-illegal", false, "downgrade install-path and macro-resolution failures to warnings")
	cmd.PersistentFlags().StringVar(&ctx.arch, "arch", "", "EPICS architecture suffix (default "+install.DefaultEpicsArch+")")
	cmd.PersistentFlags().BoolVar(&ctx.verbose, "verbose", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&ctx.jsonLog, "log-json", false, "log in JSON to stderr")

	cmd.AddCommand(newCheckCmd(ctx))
	cmd.AddCommand(newListCmd(ctx))
	cmd.AddCommand(newExportCmd(ctx))
	cmd.AddCommand(newInjectCmd(ctx))
	cmd.AddCommand(newUpdateMacrosCmd(ctx))
	cmd.AddCommand(newApplyCmd(ctx))
	cmd.AddCommand(newInitCmd(ctx))
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}

func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return mapExitCode(err)
	}
	return shared.ExitOK
}

func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	return shared.ExitError
}

// loadConfig parses the manifest for a subcommand, logging any
// accumulated warnings.
func loadConfig(ctx *appContext) (*install.InstallConfiguration, error) {
	cfg, warnings, err := parser.Parse(parser.Options{
		ConfigurePath:        ctx.configurePath,
		ManifestName:         ctx.manifestName,
		ForceInstallLocation: ctx.forceInstall,
		AllowIllegal:         ctx.allowIllegal,
		EpicsArch:            ctx.arch,
	})
	if err != nil {
		return nil, newExitCodeError(shared.ExitConfigError, err)
	}
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}
	return cfg, nil
}

type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}
