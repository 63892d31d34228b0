package model

import "time"

// HourlyRecord is one row of a supply or demand series.
// Value is power in MW averaged over the hour.
type HourlyRecord struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Value  float64 `json:"value"`
}

// HourKey identifies a calendar hour. Minutes are ignored so that series
// stamped at :00 and :30 still line up.
type HourKey struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

func (r HourlyRecord) Key() HourKey {
	return HourKey{Year: r.Year, Month: r.Month, Day: r.Day, Hour: r.Hour}
}

// RecordFromTime builds a record from a timestamp, keeping wall-clock fields.
func RecordFromTime(t time.Time, value float64) HourlyRecord {
	return HourlyRecord{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Value:  value,
	}
}

// Values extracts the Value column.
func Values(records []HourlyRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}
