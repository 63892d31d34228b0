package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"solar-storage-sim/internal/model"
)

// DefaultZone is the balancing area used when none is configured.
const DefaultZone = "CA ISO"

var demandColumns = []string{"date", "zone", "load"}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02",
}

type loadRow struct {
	line int
	date string
	zone string
	load string
}

func LoadDemandCSV(path, zone string) ([]model.HourlyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := ReadDemandCSV(f, zone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadDemandCSV parses a load file with Date, zone and load columns and keeps
// the rows of one balancing area. An empty zone selects DefaultZone.
func ReadDemandCSV(r io.Reader, zone string) ([]model.HourlyRecord, error) {
	if strings.TrimSpace(zone) == "" {
		zone = DefaultZone
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	idx, err := findHeader(cr, demandColumns)
	if err != nil {
		return nil, err
	}

	var rows []loadRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, loadRow{
			line: line,
			date: field(rec, idx["date"]),
			zone: field(rec, idx["zone"]),
			load: field(rec, idx["load"]),
		})
	}

	inZone := lo.Filter(rows, func(row loadRow, _ int) bool {
		return strings.EqualFold(row.zone, zone)
	})
	if len(inZone) == 0 {
		zones := lo.Uniq(lo.Map(rows, func(row loadRow, _ int) string { return row.zone }))
		return nil, fmt.Errorf("no demand rows for zone %q (zones present: %s)", zone, strings.Join(zones, ", "))
	}

	out := make([]model.HourlyRecord, 0, len(inZone))
	for _, row := range inZone {
		ts, err := ParseDate(row.date)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}
		load, err := parseFinite(row.load)
		if err != nil {
			return nil, fmt.Errorf("line %d: load: %w", row.line, err)
		}
		out = append(out, model.RecordFromTime(ts, load))
	}
	return out, nil
}

// ParseDate accepts the timestamp formats found in balancing-area load exports.
// Wall-clock fields are kept as written; offsets are not converted.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
