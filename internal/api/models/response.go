package models

import (
	"time"

	"solar-storage-sim/internal/analysis"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID              string           `json:"id"`
	Status          string           `json:"status"`
	Name            string           `json:"name,omitempty"`
	StorageCapacity float64          `json:"storage_capacity_mwh"`
	DroppedSupply   int              `json:"dropped_supply_hours"`
	DroppedDemand   int              `json:"dropped_demand_hours"`
	Summary         analysis.Summary `json:"summary"`
	Table           []DispatchRow    `json:"table,omitempty"`
}

// DispatchRow represents one hour of the dispatch table
type DispatchRow struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Day             int     `json:"day"`
	Hour            int     `json:"hour"`
	Demand          float64 `json:"demand"`
	Supply          float64 `json:"supply"`
	StorageDemand   float64 `json:"storage_demand"`
	StorageSupplied float64 `json:"storage_supplied"`
	StorageLevel    float64 `json:"storage_level"`
	CurtailedSupply float64 `json:"curtailed_supply"`
	TotalSupplied   float64 `json:"total_supplied"`
	Action          string  `json:"action"` // "CHARGING", "DISCHARGING", "IDLE"
}

// RunInfo is a stored run without its table
type RunInfo struct {
	ID              string           `json:"id"`
	Name            string           `json:"name,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	StorageCapacity float64          `json:"storage_capacity_mwh"`
	Summary         analysis.Summary `json:"summary"`
}

type TableResponse struct {
	ID    string        `json:"id"`
	Table []DispatchRow `json:"table"`
}

// SweepResponse lists sweep points ranked by reliability
type SweepResponse struct {
	Points []RankedPoint `json:"points"`
	// MinimumCapacity is the smallest capacity meeting the requested target.
	MinimumCapacity *float64 `json:"minimum_capacity_mwh,omitempty"`
}

type RankedPoint struct {
	Rank            int              `json:"rank"`
	StorageCapacity float64          `json:"storage_capacity_mwh"`
	Summary         analysis.Summary `json:"summary"`
}

// StoragePreset represents a storage preset file
type StoragePreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	File        string  `json:"file"`
	CapacityMWh float64 `json:"capacity_mwh"`
}

// DatasetInfo represents a CSV file in the data directory
type DatasetInfo struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"` // "supply", "demand", "unknown"
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
