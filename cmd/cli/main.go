package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cli",
		Short: "Hourly solar + storage dispatch simulator",
		Long: `Simulates a solar fleet backed by a storage pool against hourly demand.

Outputs a dispatch table with one row per hour: demand, solar supply, storage
flow and level, curtailment and the total supplied to the grid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSimulateCmd(), newSweepCmd(), newSummaryCmd())
	return root
}
