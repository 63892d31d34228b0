package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/dispatch"
	"solar-storage-sim/internal/model"
)

func newSummaryCmd() *cobra.Command {
	var (
		tablePath string
		capacity  float64
	)
	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Summarize a dispatch table written by simulate",
		Example: `  cli summary --table results/dispatch.csv --capacity 100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.OutOrStdout(), tablePath, capacity)
		},
	}
	cmd.Flags().StringVarP(&tablePath, "table", "t", "results/dispatch.csv", "dispatch table CSV")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "storage capacity in MWh, enables the storage-full count")
	return cmd
}

func runSummary(w io.Writer, tablePath string, capacity float64) error {
	f, err := os.Open(tablePath)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := dispatch.ReadTableCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", tablePath, err)
	}

	printSummary(w, analysis.SummarizeTable(rows, capacity))
	counts := actionCounts(rows)
	fmt.Fprintf(w, "Hours charging=%d idle=%d discharging=%d\n",
		counts[model.ActionCharging], counts[model.ActionIdle], counts[model.ActionDischarging])
	return nil
}
