package model

import (
	"errors"
	"math"
)

// StorageParams describes the storage pool attached to the grid.
// Units:
// - CapacityMWh: MWh, the maximum energy that can be held
type StorageParams struct {
	Name        string
	CapacityMWh float64
}

func (p StorageParams) Validate() error {
	if math.IsNaN(p.CapacityMWh) || p.CapacityMWh < 0 {
		return errors.New("CapacityMWh must be >= 0")
	}
	if math.IsInf(p.CapacityMWh, 1) {
		return errors.New("CapacityMWh must be finite")
	}
	return nil
}

// SolarParams describes the utility-scale solar fleet.
// Units:
// - CapacityMW: nameplate MW; GHI of 1000 W/m^2 yields CapacityMW of output
type SolarParams struct {
	CapacityMW float64
}

func (p SolarParams) Validate() error {
	if math.IsNaN(p.CapacityMW) || p.CapacityMW <= 0 {
		return errors.New("solar CapacityMW must be > 0")
	}
	return nil
}
