package main

import (
	"fmt"

	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/dispatch"
)

// scenario is a loaded config with its aligned series.
type scenario struct {
	cfg     *config.Config
	aligned data.Aligned
}

// loadScenario reads the config and both series. A positive limit overrides
// simulation.limit_hours.
func loadScenario(path string, limit int) (*scenario, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	supply, err := data.LoadSupplyCSV(cfg.Solar.File, cfg.Solar.ToModelParams())
	if err != nil {
		return nil, fmt.Errorf("load supply: %w", err)
	}
	demand, err := data.LoadDemandCSV(cfg.Demand.File, cfg.Demand.Zone)
	if err != nil {
		return nil, fmt.Errorf("load demand: %w", err)
	}

	if limit <= 0 {
		limit = cfg.Simulation.LimitHours
	}
	return &scenario{cfg: cfg, aligned: data.Align(supply, demand).Truncate(limit)}, nil
}

func (s *scenario) options() []dispatch.Option {
	if s.cfg.Simulation.ClampInitialLevel {
		return []dispatch.Option{dispatch.WithClampedStart()}
	}
	return nil
}
