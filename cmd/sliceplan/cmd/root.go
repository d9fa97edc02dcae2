package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "sliceplan",
	Short: "plan per-layer FDM toolpaths",
	Long: `sliceplan turns a 2D cross-section (a DXF outline) into a
travel-minimised sequence of shell and fill moves, then emits G-code,
a layer report, and an HTML debug viewer.`,
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
