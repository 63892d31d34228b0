package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/model"
)

func newSweepCmd() *cobra.Command {
	var (
		cfgPath    string
		capacities string
		target     float64
		n          int
	)
	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Simulate several storage capacities and rank them by reliability",
		Example: `  cli sweep --config examples/scenario.yaml --capacities 0,1e5,5e5 --target 0.99`,
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := parseCapacities(capacities)
			if err != nil {
				return err
			}
			return runSweep(cmd.Context(), cmd.OutOrStdout(), cfgPath, caps, target, n)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "scenario YAML")
	cmd.Flags().StringVar(&capacities, "capacities", "", "comma-separated storage capacities in MWh")
	cmd.Flags().Float64Var(&target, "target", 0, "report the smallest capacity reaching this reliability (0-1)")
	cmd.Flags().IntVar(&n, "n", 0, "limit to the first N aligned hours (0 = config value)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("capacities")
	return cmd
}

func runSweep(ctx context.Context, w io.Writer, cfgPath string, caps []float64, target float64, n int) error {
	if target < 0 || target > 1 {
		return fmt.Errorf("--target must be within [0, 1], got %g", target)
	}
	sc, err := loadScenario(cfgPath, n)
	if err != nil {
		return err
	}

	points, err := analysis.Sweep(ctx, model.Values(sc.aligned.Supply), model.Values(sc.aligned.Demand), caps, sc.options()...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-4s %-14s %-12s %-12s %-12s %-8s\n", "rank", "capacity_mwh", "reliability", "unmet_mwh", "curtail_mwh", "met_hrs")
	for i, p := range analysis.RankByReliability(points) {
		s := p.Summary
		fmt.Fprintf(w, "%-4d %-14.1f %-12.4f %-12.1f %-12.1f %-8d\n",
			i+1, p.StorageCapacity, s.Reliability, s.UnmetDemand, s.TotalCurtailed, s.HoursFullyMet)
	}

	if target > 0 {
		if best, ok := analysis.MinimumCapacity(points, target); ok {
			fmt.Fprintf(w, "Minimum capacity for reliability %.4f: %.1f MWh\n", target, best.StorageCapacity)
		} else {
			fmt.Fprintf(w, "No capacity reached reliability %.4f\n", target)
		}
	}
	return nil
}

func parseCapacities(s string) ([]float64, error) {
	var out []float64
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid capacity %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--capacities is empty")
	}
	return out, nil
}
