package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/dispatch"
	"solar-storage-sim/internal/logger"
	"solar-storage-sim/internal/model"
	"solar-storage-sim/internal/store"
)

func newSimulateCmd() *cobra.Command {
	var (
		cfgPath   string
		outPath   string
		n         int
		storePath string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one simulation and write the dispatch table as CSV",
		Example: `  cli simulate --config examples/scenario.yaml --out results/dispatch.csv
  cli simulate --config examples/scenario.yaml --n 168 --store results.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), cfgPath, outPath, n, storePath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "scenario YAML")
	cmd.Flags().StringVarP(&outPath, "out", "o", "results/dispatch.csv", "output CSV path")
	cmd.Flags().IntVar(&n, "n", 0, "limit to the first N aligned hours (0 = config value)")
	cmd.Flags().StringVar(&storePath, "store", "", "optional SQLite database to record the run in")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runSimulate(ctx context.Context, w io.Writer, cfgPath, outPath string, n int, storePath string) error {
	log := logger.New("cli")

	sc, err := loadScenario(cfgPath, n)
	if err != nil {
		return err
	}
	if sc.aligned.DroppedSupply > 0 || sc.aligned.DroppedDemand > 0 {
		log.Warnf("dropped %d supply and %d demand hours without a counterpart",
			sc.aligned.DroppedSupply, sc.aligned.DroppedDemand)
	}

	storage := sc.cfg.Storage.ToModelParams()
	res, err := dispatch.New(sc.options()...).Run(sc.aligned.Supply, sc.aligned.Demand, storage.CapacityMWh)
	if err != nil {
		return err
	}
	table := res.DispatchTable()
	if err := dispatch.WriteTableCSV(outPath, table); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	summary := analysis.Summarize(res)
	fmt.Fprintf(w, "Wrote %d rows to %s\n", len(table), outPath)
	printSummary(w, summary)
	fmt.Fprintf(w, "Solar capacity factor=%.3f\n", analysis.CapacityFactor(res.Outputs(), sc.cfg.Solar.CapacityMW))

	if storePath != "" {
		runs, err := store.Open(storePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer runs.Close()
		run, err := runs.Save(ctx, store.Run{
			Name:            storage.Name,
			StorageCapacity: storage.CapacityMWh,
			Summary:         summary,
			Table:           table,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Stored run %s\n", run.ID)
	}
	return nil
}

func printSummary(w io.Writer, s analysis.Summary) {
	fmt.Fprintf(w, "Hours=%d Storage=%.1f MWh\n", s.Hours, s.StorageCapacity)
	fmt.Fprintf(w, "Demand=%.1f Solar=%.1f Supplied=%.1f Curtailed=%.1f Unmet=%.1f MWh\n",
		s.TotalDemand, s.TotalSolar, s.TotalSupplied, s.TotalCurtailed, s.UnmetDemand)
	fmt.Fprintf(w, "Reliability=%.4f Fully met hours=%d Storage empty hours=%d full hours=%d\n",
		s.Reliability, s.HoursFullyMet, s.HoursStorageEmpty, s.HoursStorageFull)
	fmt.Fprintf(w, "Level mean=%.1f p05=%.1f p50=%.1f p95=%.1f MWh\n",
		s.MeanLevel, s.P05Level, s.P50Level, s.P95Level)
}

// actionCounts tallies hours per storage mode.
func actionCounts(rows []dispatch.TableRow) map[model.Action]int {
	out := map[model.Action]int{}
	for _, r := range rows {
		out[model.ActionFromStorageSupplied(r.StorageSupplied)]++
	}
	return out
}
