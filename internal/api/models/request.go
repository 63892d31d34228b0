package models

// SeriesRequest selects the hourly series to simulate: either inline values
// or dataset names from the data directory.
type SeriesRequest struct {
	Supply []float64 `json:"supply,omitempty"`
	Demand []float64 `json:"demand,omitempty"`
	// Start labels inline series, hour by hour (YYYY-MM-DD or RFC 3339).
	Start string `json:"start,omitempty"`

	SupplyDataset   string  `json:"supply_dataset,omitempty"`
	DemandDataset   string  `json:"demand_dataset,omitempty"`
	SolarCapacityMW float64 `json:"solar_capacity_mw,omitempty"` // default: 17500
	Zone            string  `json:"zone,omitempty"`              // default: "CA ISO"
}

// Inline reports whether the request carries its own values.
func (r SeriesRequest) Inline() bool {
	return len(r.Supply) > 0 || len(r.Demand) > 0
}

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Name string `json:"name,omitempty"`
	SeriesRequest

	// Storage names a preset; StorageCapacityMWh overrides its capacity.
	Storage            string   `json:"storage,omitempty"`
	StorageCapacityMWh *float64 `json:"storage_capacity_mwh,omitempty"`

	Options SimulateOptions `json:"options,omitempty"`
}

type SimulateOptions struct {
	ClampInitialLevel bool `json:"clamp_initial_level,omitempty"`
	LimitHours        int  `json:"limit_hours,omitempty"` // 0 = all
	IncludeTable      bool `json:"include_table,omitempty"`
}

// SweepRequest runs one simulation per capacity over the same series.
type SweepRequest struct {
	SeriesRequest

	Capacities []float64 `json:"capacities" binding:"required,min=1"`
	// Target is a reliability in (0, 1]; when set the smallest capacity
	// reaching it is reported.
	Target  float64         `json:"target,omitempty"`
	Options SimulateOptions `json:"options,omitempty"`
}
