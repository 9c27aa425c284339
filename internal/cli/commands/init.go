package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter configure directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configure := ctx.configurePath
			if err := writeIfNotExists(filepath.Join(configure, "INSTALL_CONFIG"), manifestTemplate()); err != nil {
				return err
			}
			if err := writeIfNotExists(filepath.Join(configure, "injectionFiles", "PLUGIN_CONFIG"), injectorTemplate()); err != nil {
				return err
			}
			if err := writeIfNotExists(filepath.Join(configure, "macroFiles", "BUILD_FLAG_CONFIG"), macroTemplate()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized: %s\n", configure)
			return nil
		},
	}
}

func writeIfNotExists(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func manifestTemplate() string {
	return `# Install manifest. Columns:
# NAME  VERSION  PATH  REPOSITORY  CLONE  BUILD
INSTALL=/epics

GIT_URL=https://github.com/epics-base/
EPICS_BASE      R7.0.3     $(INSTALL)/base            epics-base    YES  YES
SUPPORT         R6-1       $(INSTALL)/support         epics-support YES  YES
AREA_DETECTOR   R3-8       $(SUPPORT)/areaDetector    areaDetector  YES  YES

GIT_URL=https://github.com/areaDetector/
ADCORE          R3-8       $(AREA_DETECTOR)/ADCore    ADCore        YES  YES
`
}

func injectorTemplate() string {
	return `# Lines below are appended into the target during injection.
__TARGET_LOC__=$(AREA_DETECTOR)/ADCore/iocBoot/commonPlugins.cmd

# dbLoadRecords("$(ADCORE)/db/NDPluginPva.template")
`
}

func macroTemplate() string {
	return `# Build toggles applied during the macro pass.
JPEG_EXTERNAL=NO
TIFF_EXTERNAL=NO
`
}
