package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/dispatch"
	"solar-storage-sim/internal/model"
)

// Demo:
// - Build a synthetic clear-sky day of solar and a flat demand with an evening peak
// - Attach a storage pool
// - Run the dispatch and print every hour to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to scenario YAML (optional, storage and solar size only)")
	days := flag.Int("days", 1, "Number of synthetic days to simulate")
	capacity := flag.Float64("capacity", 40000, "Storage capacity in MWh")
	solarMW := flag.Float64("solar-mw", config.DefaultSolarCapacityMW, "Solar nameplate MW")
	baseMW := flag.Float64("demand-mw", 6000, "Base demand in MW")
	outCSV := flag.String("out", "", "Optional path to write the dispatch table (e.g. results/demo.csv)")
	flag.Parse()

	storage := model.StorageParams{Name: "demo", CapacityMWh: *capacity}
	solar := model.SolarParams{CapacityMW: *solarMW}
	if *cfgPath != "" {
		cfg, err := config.LoadUnchecked(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg.SetDefaults()
		storage = cfg.Storage.ToModelParams()
		solar = cfg.Solar.ToModelParams()
	}
	if err := storage.Validate(); err != nil {
		panic(err)
	}
	if err := solar.Validate(); err != nil {
		panic(err)
	}

	start := time.Date(2021, time.June, 21, 0, 0, 0, 0, time.UTC)
	supply, demand := syntheticDays(start, *days, solar.CapacityMW, *baseMW)

	result, err := dispatch.New().Run(supply, demand, storage.CapacityMWh)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulated %d hours from %s\n", result.Len(), start.Format("2006-01-02"))
	fmt.Printf("Storage=%s capacity=%.0f MWh  Solar=%.0f MW\n\n", storage.Name, storage.CapacityMWh, solar.CapacityMW)

	for _, r := range result.DispatchTable() {
		fmt.Printf(
			"%04d-%02d-%02d %02d:00  demand=%8.1f  solar=%8.1f  action=%-11s  flow=%9.1f  level=%9.1f  curtailed=%8.1f  supplied=%8.1f\n",
			r.Year, r.Month, r.Day, r.Hour,
			r.Demand,
			r.Supply,
			string(model.ActionFromStorageSupplied(r.StorageSupplied)),
			r.StorageSupplied,
			r.StorageLevel,
			r.CurtailedSupply,
			r.TotalSupplied,
		)
	}

	if *outCSV != "" {
		if err := dispatch.WriteTableCSV(*outCSV, result.DispatchTable()); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	s := analysis.Summarize(result)
	fmt.Printf("\nDone. Reliability=%.4f  Unmet=%.1f MWh  Curtailed=%.1f MWh  Final level=%.1f MWh\n",
		s.Reliability, s.UnmetDemand, s.TotalCurtailed, result.Final().StorageLevel)
}

// syntheticDays returns a half-sine solar profile between 06:00 and 18:00 and
// a demand that rises by half between 17:00 and 21:00.
func syntheticDays(start time.Time, days int, solarMW, baseMW float64) (supply, demand []model.HourlyRecord) {
	if days < 1 {
		days = 1
	}
	for h := 0; h < days*24; h++ {
		t := start.Add(time.Duration(h) * time.Hour)
		hour := float64(t.Hour())

		s := 0.0
		if hour > 6 && hour < 18 {
			s = solarMW * math.Sin(math.Pi*(hour-6)/12)
		}
		d := baseMW
		if t.Hour() >= 17 && t.Hour() <= 21 {
			d *= 1.5
		}
		supply = append(supply, model.RecordFromTime(t, s))
		demand = append(demand, model.RecordFromTime(t, d))
	}
	return supply, demand
}
