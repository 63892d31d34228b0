package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"solar-storage-sim/internal/model"
)

var supplyColumns = []string{"year", "month", "day", "hour", "minute", "ghi"}

// SupplyFromGHI converts global horizontal irradiance (W/m^2) into MW of solar
// output for a fleet of the given nameplate capacity.
func SupplyFromGHI(ghi, capacityMW float64) float64 {
	return ghi * capacityMW / 1000
}

func LoadSupplyCSV(path string, solar model.SolarParams) ([]model.HourlyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := ReadSupplyCSV(f, solar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadSupplyCSV parses an irradiance file with Year, Month, Day, Hour, Minute
// and GHI columns. Leading metadata lines, as found in NSRDB downloads, are
// skipped until the column header is found.
func ReadSupplyCSV(r io.Reader, solar model.SolarParams) ([]model.HourlyRecord, error) {
	if err := solar.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	idx, err := findHeader(cr, supplyColumns)
	if err != nil {
		return nil, err
	}

	var out []model.HourlyRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		var ints [5]int
		for i, col := range supplyColumns[:5] {
			v, err := strconv.Atoi(field(rec, idx[col]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, col, err)
			}
			ints[i] = v
		}
		ghi, err := parseFinite(field(rec, idx["ghi"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: ghi: %w", line, err)
		}
		out = append(out, model.HourlyRecord{
			Year:   ints[0],
			Month:  ints[1],
			Day:    ints[2],
			Hour:   ints[3],
			Minute: ints[4],
			Value:  SupplyFromGHI(ghi, solar.CapacityMW),
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no supply rows")
	}
	return out, nil
}

// findHeader reads records until one contains every wanted column
// (case-insensitive) and returns the column positions.
func findHeader(cr *csv.Reader, want []string) (map[string]int, error) {
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("header with columns %s not found", strings.Join(want, ", "))
		}
		if err != nil {
			return nil, err
		}
		idx := make(map[string]int, len(rec))
		for i, h := range rec {
			key := normalizeHeader(h)
			if _, dup := idx[key]; !dup {
				idx[key] = i
			}
		}
		found := true
		for _, w := range want {
			if _, ok := idx[w]; !ok {
				found = false
				break
			}
		}
		if found {
			return idx, nil
		}
	}
}

// normalizeHeader lower-cases a column name and strips a UTF-8 byte order mark.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// parseFinite parses a float and rejects NaN and infinities, which
// strconv.ParseFloat accepts.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
