package dispatch

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every validation failure of a simulation input.
var ErrInvalidInput = errors.New("invalid simulation input")

// InputError names the offending field of a rejected input.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Input is the caller-owned data handed to the simulator. Element i of
// Supply and Demand describe the same hour, in MW.
type Input struct {
	Supply          []float64
	Demand          []float64
	StorageCapacity float64
}

// Validate checks the shape of the input only. Spacing, units and ordering of
// the underlying hours are the caller's responsibility.
func (in Input) Validate() error {
	if len(in.Supply) == 0 || len(in.Demand) == 0 {
		return &InputError{Field: "series", Reason: "must not be empty"}
	}
	if len(in.Supply) != len(in.Demand) {
		return &InputError{
			Field:  "series",
			Reason: fmt.Sprintf("length mismatch: supply=%d demand=%d", len(in.Supply), len(in.Demand)),
		}
	}
	// NaN fails the comparison below as well, so it is rejected here.
	if !(in.StorageCapacity >= 0) {
		return &InputError{Field: "storage_capacity", Reason: fmt.Sprintf("must be >= 0, got %v", in.StorageCapacity)}
	}
	if math.IsInf(in.StorageCapacity, 1) {
		return &InputError{Field: "storage_capacity", Reason: "must be finite"}
	}
	return nil
}
