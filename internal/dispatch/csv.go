package dispatch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// TableHeader is the column layout of a dispatch table.
var TableHeader = []string{
	"Year",
	"Month",
	"Day",
	"Hour",
	"Total Demand",
	"Solar Supply",
	"Storage Demand",
	"Storage Supplied",
	"Storage Left",
	"Curtailed Supply",
	"Total Supplied",
}

func WriteTableCSV(path string, rows []TableRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeTableCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodeTableCSV writes the header and one record per row to w.
func EncodeTableCSV(w io.Writer, rows []TableRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			strconv.Itoa(r.Hour),
			fmtFloat(r.Demand),
			fmtFloat(r.Supply),
			fmtFloat(r.StorageDemand),
			fmtFloat(r.StorageSupplied),
			fmtFloat(r.StorageLevel),
			fmtFloat(r.CurtailedSupply),
			fmtFloat(r.TotalSupplied),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTableCSV parses a table previously written by EncodeTableCSV.
func ReadTableCSV(r io.Reader) ([]TableRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(TableHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dispatch table is empty")
		}
		return nil, err
	}
	for i, h := range TableHeader {
		if header[i] != h {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i, header[i], h)
		}
	}

	var rows []TableRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (TableRow, error) {
	var row TableRow
	ints := []*int{&row.Year, &row.Month, &row.Day, &row.Hour}
	for i, dst := range ints {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return row, fmt.Errorf("%s: %w", TableHeader[i], err)
		}
		*dst = v
	}
	floats := []*float64{
		&row.Demand,
		&row.Supply,
		&row.StorageDemand,
		&row.StorageSupplied,
		&row.StorageLevel,
		&row.CurtailedSupply,
		&row.TotalSupplied,
	}
	for i, dst := range floats {
		col := len(ints) + i
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", TableHeader[col], err)
		}
		*dst = v
	}
	return row, nil
}

// fmtFloat writes the shortest decimal that parses back to x exactly.
func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
