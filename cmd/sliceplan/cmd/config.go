package cmd

import (
	"fmt"

	"github.com/piwi3910/sliceplan/internal/model"
	"github.com/piwi3910/sliceplan/internal/project"
	"github.com/spf13/cobra"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "write a default application config file",
	Long: `Write a config file prefilled with default slicing settings
(layer width, infill, nozzle diameter, default machine profile). If
FILE is not given, the platform default config path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	RootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, args []string) error {
	path := project.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	ok, err := confirmIfExists(path, fmt.Sprintf("config file %s already exists, overwrite? [y/N]", path))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("aborted by user")
		return nil
	}

	if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("default config written to %s\n", path)
	return nil
}
