package analysis

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"solar-storage-sim/internal/dispatch"
)

const tolerance = 1e-9

// Summary condenses a dispatch table into the figures used to compare runs.
// Energy values are MWh.
type Summary struct {
	Hours           int     `json:"hours"`
	StorageCapacity float64 `json:"storage_capacity"`

	TotalDemand    float64 `json:"total_demand"`
	TotalSolar     float64 `json:"total_solar"`
	TotalSupplied  float64 `json:"total_supplied"`
	TotalCurtailed float64 `json:"total_curtailed"`
	TotalDischarge float64 `json:"total_discharge"`
	TotalCharge    float64 `json:"total_charge"`
	UnmetDemand    float64 `json:"unmet_demand"`

	// Reliability is the share of demand actually served, in [0, 1].
	Reliability float64 `json:"reliability"`

	HoursFullyMet     int `json:"hours_fully_met"`
	HoursCurtailed    int `json:"hours_curtailed"`
	HoursStorageEmpty int `json:"hours_storage_empty"`
	HoursStorageFull  int `json:"hours_storage_full"`

	MeanLevel float64 `json:"mean_level"`
	P05Level  float64 `json:"p05_level"`
	P50Level  float64 `json:"p50_level"`
	P95Level  float64 `json:"p95_level"`
}

// Summarize computes the summary of a simulation result.
func Summarize(res *dispatch.Result) Summary {
	if res == nil {
		return Summary{Reliability: 1}
	}
	return SummarizeOutputs(res.Outputs(), res.StorageCapacity)
}

// SummarizeTable works on a dispatch table, e.g. one read back from CSV.
// A capacity of zero or less disables the storage-full count.
func SummarizeTable(rows []dispatch.TableRow, capacity float64) Summary {
	return SummarizeOutputs(lo.Map(rows, func(r dispatch.TableRow, _ int) dispatch.Output {
		return r.Output
	}), capacity)
}

func SummarizeOutputs(outputs []dispatch.Output, capacity float64) Summary {
	s := Summary{Hours: len(outputs), StorageCapacity: capacity, Reliability: 1}
	if len(outputs) == 0 {
		return s
	}

	levels := make([]float64, len(outputs))
	served := 0.0
	for i, o := range outputs {
		s.TotalDemand += o.Demand
		s.TotalSolar += o.Supply
		s.TotalSupplied += o.TotalSupplied
		s.TotalCurtailed += o.CurtailedSupply
		if o.StorageSupplied > 0 {
			s.TotalDischarge += o.StorageSupplied
		} else {
			s.TotalCharge -= o.StorageSupplied
		}

		short := o.Demand - o.TotalSupplied
		if short > 0 {
			s.UnmetDemand += short
		}
		if short <= tolerance {
			s.HoursFullyMet++
		}
		served += math.Min(o.TotalSupplied, o.Demand)

		if o.CurtailedSupply > 0 {
			s.HoursCurtailed++
		}
		if i > 0 && o.StorageLevel == 0 {
			s.HoursStorageEmpty++
		}
		if capacity > 0 && o.StorageLevel >= capacity-tolerance {
			s.HoursStorageFull++
		}
		levels[i] = o.StorageLevel
	}

	if s.TotalDemand > 0 {
		s.Reliability = served / s.TotalDemand
	}

	s.MeanLevel = stat.Mean(levels, nil)
	sort.Float64s(levels)
	s.P05Level = stat.Quantile(0.05, stat.Empirical, levels, nil)
	s.P50Level = stat.Quantile(0.50, stat.Empirical, levels, nil)
	s.P95Level = stat.Quantile(0.95, stat.Empirical, levels, nil)
	return s
}

// CapacityFactor is total solar over the nameplate energy of the period.
func CapacityFactor(outputs []dispatch.Output, capacityMW float64) float64 {
	if capacityMW <= 0 || len(outputs) == 0 {
		return 0
	}
	solar := floats.Sum(lo.Map(outputs, func(o dispatch.Output, _ int) float64 { return o.Supply }))
	return solar / (capacityMW * float64(len(outputs)))
}
