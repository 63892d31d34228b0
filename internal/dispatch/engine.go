package dispatch

import (
	"fmt"

	"solar-storage-sim/internal/model"
)

type Engine struct {
	opts []Option
}

func New(opts ...Option) *Engine { return &Engine{opts: opts} }

// Run simulates aligned supply and demand records. Calendar fields of the
// supply records label the rows of the resulting dispatch table.
func (e *Engine) Run(supply, demand []model.HourlyRecord, storageCapacity float64) (*Result, error) {
	outputs, err := Simulate(model.Values(supply), model.Values(demand), storageCapacity, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	labels := make([]model.HourKey, len(supply))
	for i, r := range supply {
		labels[i] = r.Key()
	}

	return &Result{
		StorageCapacity: storageCapacity,
		labels:          labels,
		outputs:         outputs,
	}, nil
}
