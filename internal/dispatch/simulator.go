package dispatch

import (
	"math"
)

// State is the only value carried from one hour to the next.
type State struct {
	// StorageLevel is the MWh held at the end of the hour.
	StorageLevel float64
}

type options struct {
	clampStart bool
}

// Option tweaks a simulation run.
type Option func(*options)

// WithClampedStart clamps the first hour's storage level to [0, capacity].
// Without it the first hour keeps the unclamped level, which exceeds the
// capacity whenever that hour has surplus solar.
func WithClampedStart() Option {
	return func(o *options) { o.clampStart = true }
}

// Simulate runs the greedy dispatch over aligned hourly supply and demand.
//
// Each hour solar serves demand first, storage covers any deficit up to what it
// held at the start of the hour, surplus charges storage up to capacity and the
// remainder is curtailed. One Output is returned per input hour, in order.
func Simulate(supply, demand []float64, storageCapacity float64, opts ...Option) ([]Output, error) {
	in := Input{Supply: supply, Demand: demand, StorageCapacity: storageCapacity}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]Output, len(supply))
	state, first := start(supply[0], demand[0], storageCapacity, o.clampStart)
	out[0] = first
	for i := 1; i < len(supply); i++ {
		state, out[i] = step(state, supply[i], demand[i], storageCapacity)
	}
	return out, nil
}

// start handles hour 0. Storage begins full: the draw is capped by capacity
// only and the resulting level is not clamped unless clamp is set.
func start(supply, demand, capacity float64, clamp bool) (State, Output) {
	net := demand - supply
	supplied := math.Min(capacity, net)
	level := capacity - supplied
	if clamp {
		level = clampLevel(level, capacity)
	}
	curtailed := math.Max(0, supplied-net)

	return State{StorageLevel: level}, Output{
		Demand:          demand,
		Supply:          supply,
		StorageDemand:   net,
		StorageSupplied: supplied,
		StorageLevel:    level,
		CurtailedSupply: curtailed,
		TotalSupplied:   supplied + supply,
	}
}

// step advances one steady-state hour from prev.
func step(prev State, supply, demand, capacity float64) (State, Output) {
	net := demand - supply
	level := clampLevel(prev.StorageLevel-net, capacity)

	var supplied float64
	if net > 0 {
		// cannot draw more than was held when the hour began
		supplied = math.Min(prev.StorageLevel, net)
	} else {
		// negative: charging, limited by headroom
		supplied = math.Max(prev.StorageLevel-capacity, net)
	}
	curtailed := math.Max(0, supplied-net)

	return State{StorageLevel: level}, Output{
		Demand:          demand,
		Supply:          supply,
		StorageDemand:   net,
		StorageSupplied: supplied,
		StorageLevel:    level,
		CurtailedSupply: curtailed,
		TotalSupplied:   supply - curtailed + supplied,
	}
}

func clampLevel(level, capacity float64) float64 {
	if level < 0 {
		return 0
	}
	if level > capacity {
		return capacity
	}
	return level
}
