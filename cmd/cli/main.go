package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gograph-cli",
		Short:         "Profile tabular files and render charts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newAvailabilityCmd(),
		newSummaryCmd(),
		newRenderCmd(),
		newReportCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}
