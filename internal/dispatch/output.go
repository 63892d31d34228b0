package dispatch

import "solar-storage-sim/internal/model"

// Output is what happened in one simulated hour. Power values are MW, which
// over one hour equal MWh.
type Output struct {
	Demand float64
	Supply float64

	// StorageDemand is Demand - Supply: positive is a deficit, negative a surplus.
	StorageDemand float64
	// StorageSupplied is drawn from (positive) or absorbed by (negative) storage.
	StorageSupplied float64
	StorageLevel    float64

	CurtailedSupply float64
	TotalSupplied   float64
}

// TableRow is one row of the dispatch table: an Output labelled with the
// calendar hour it belongs to.
type TableRow struct {
	Year  int
	Month int
	Day   int
	Hour  int

	Output
}

// Result is the immutable outcome of one simulation.
type Result struct {
	StorageCapacity float64

	labels  []model.HourKey
	outputs []Output
}

func (r *Result) Len() int { return len(r.outputs) }

// Outputs returns a copy of the per-hour outputs.
func (r *Result) Outputs() []Output {
	out := make([]Output, len(r.outputs))
	copy(out, r.outputs)
	return out
}

// DispatchTable joins every output with its calendar labels, in input order.
func (r *Result) DispatchTable() []TableRow {
	rows := make([]TableRow, len(r.outputs))
	for i, o := range r.outputs {
		rows[i] = TableRow{Output: o}
		if i < len(r.labels) {
			k := r.labels[i]
			rows[i].Year, rows[i].Month, rows[i].Day, rows[i].Hour = k.Year, k.Month, k.Day, k.Hour
		}
	}
	return rows
}

// Final returns the last hour's output.
func (r *Result) Final() Output {
	if len(r.outputs) == 0 {
		return Output{}
	}
	return r.outputs[len(r.outputs)-1]
}
