package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tells which provider a dataset feeds.
type Kind string

const (
	KindSupply  Kind = "supply"
	KindDemand  Kind = "demand"
	KindUnknown Kind = "unknown"
)

// Dataset is a CSV file found in the data directory.
type Dataset struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Kind      Kind      `json:"kind"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// sniffLines bounds how far into a file the header is searched for.
const sniffLines = 5

// ScanDatasets lists the CSV files of dir, sorted by name, classifying each
// one by its header.
func ScanDatasets(dir string) ([]Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var out []Dataset
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		out = append(out, Dataset{
			Name:      e.Name(),
			Path:      path,
			Kind:      SniffKind(path),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ResolveDataset maps a dataset name to a path inside dir. Names containing
// path separators are rejected.
func ResolveDataset(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", fmt.Errorf("invalid dataset name %q", name)
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("dataset %q: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("dataset %q is a directory", name)
	}
	return path, nil
}

// SniffKind inspects the first lines of a CSV file for a known header.
func SniffKind(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	for i := 0; i < sniffLines; i++ {
		rec, err := cr.Read()
		if err != nil {
			return KindUnknown
		}
		cols := make(map[string]bool, len(rec))
		for _, h := range rec {
			cols[normalizeHeader(h)] = true
		}
		if hasAll(cols, supplyColumns) {
			return KindSupply
		}
		if hasAll(cols, demandColumns) {
			return KindDemand
		}
	}
	return KindUnknown
}

func hasAll(cols map[string]bool, want []string) bool {
	for _, w := range want {
		if !cols[w] {
			return false
		}
	}
	return true
}
