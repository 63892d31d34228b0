package data

import "solar-storage-sim/internal/model"

// Aligned holds supply and demand records paired by calendar hour.
type Aligned struct {
	Supply []model.HourlyRecord
	Demand []model.HourlyRecord

	// Hours present on one side only.
	DroppedSupply int
	DroppedDemand int
}

// Align pairs supply and demand on (year, month, day, hour), keeping the
// supply order. Hours missing from either side are dropped and counted. When
// demand repeats an hour the first occurrence wins.
func Align(supply, demand []model.HourlyRecord) Aligned {
	byHour := make(map[model.HourKey]int, len(demand))
	for i, d := range demand {
		if _, ok := byHour[d.Key()]; !ok {
			byHour[d.Key()] = i
		}
	}

	out := Aligned{
		Supply: make([]model.HourlyRecord, 0, len(supply)),
		Demand: make([]model.HourlyRecord, 0, len(supply)),
	}
	used := make(map[int]struct{}, len(demand))
	for _, s := range supply {
		j, ok := byHour[s.Key()]
		if !ok {
			out.DroppedSupply++
			continue
		}
		out.Supply = append(out.Supply, s)
		out.Demand = append(out.Demand, demand[j])
		used[j] = struct{}{}
	}
	out.DroppedDemand = len(demand) - len(used)
	return out
}

// Len is the number of paired hours.
func (a Aligned) Len() int { return len(a.Supply) }

// Truncate keeps the first n paired hours; n <= 0 keeps everything.
func (a Aligned) Truncate(n int) Aligned {
	if n <= 0 {
		return a
	}
	if n < len(a.Supply) {
		a.Supply = a.Supply[:n]
	}
	if n < len(a.Demand) {
		a.Demand = a.Demand[:n]
	}
	return a
}
