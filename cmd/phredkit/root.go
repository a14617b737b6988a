package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// VERSION is the phredkit release tag, stamped at build time via -ldflags
// in release builds; "dev" otherwise.
var VERSION = "dev"

// exitFunc is indirected so command tests can observe a requested exit
// code instead of killing the test process.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:     "phredkit",
	Short:   "A toolkit for inspecting, converting, and repairing FASTQ streams",
	Version: VERSION,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.SetHelpFunc(helpFunc)
	rootCmd.AddCommand(
		InspectCommand(),
		ConvertCommand(),
		BinCommand(),
		PairCommand(),
		RepairCommand(),
		GTFCommand(),
	)
}

// Execute runs the root command, exiting non-zero through exitFunc on
// failure so tests can intercept it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		exitFunc(1)
	}
}
