package data

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-storage-sim/internal/model"
)

const nsrdbSample = `Source,Location ID,City,State,Country,Latitude,Longitude
NSRDB,123456,-,-,-,36.77,-119.41
Year,Month,Day,Hour,Minute,GHI,Temperature
2021,1,1,0,30,0,5.1
2021,1,1,1,30,0,4.9
2021,1,1,12,30,500,12.0
`

const loadSample = `Date,zone,load
2021-01-01 00:00:00,CA ISO,21000
2021-01-01 00:00:00,PGE,9000
2021-01-01 01:00:00,CA ISO,20500
2021-01-01 12:00:00,CA ISO,19000.5
`

func TestSupplyFromGHI(t *testing.T) {
	assert.InDelta(t, 17500.0, SupplyFromGHI(1000, 17500), 1e-9)
	assert.InDelta(t, 0.0, SupplyFromGHI(0, 17500), 1e-9)
	assert.InDelta(t, 8750.0, SupplyFromGHI(500, 17500), 1e-9)
}

func TestReadSupplyCSV(t *testing.T) {
	recs, err := ReadSupplyCSV(strings.NewReader(nsrdbSample), model.SolarParams{CapacityMW: 17500})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, model.HourlyRecord{Year: 2021, Month: 1, Day: 1, Hour: 0, Minute: 30, Value: 0}, recs[0])
	assert.Equal(t, 12, recs[2].Hour)
	assert.InDelta(t, 8750.0, recs[2].Value, 1e-9)
}

func TestReadSupplyCSVErrors(t *testing.T) {
	_, err := ReadSupplyCSV(strings.NewReader("a,b\n1,2\n"), model.SolarParams{CapacityMW: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")

	_, err = ReadSupplyCSV(strings.NewReader(nsrdbSample), model.SolarParams{CapacityMW: 0})
	require.Error(t, err)

	bad := "Year,Month,Day,Hour,Minute,GHI\n2021,1,1,x,0,1\n"
	_, err = ReadSupplyCSV(strings.NewReader(bad), model.SolarParams{CapacityMW: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hour")

	_, err = ReadSupplyCSV(strings.NewReader("Year,Month,Day,Hour,Minute,GHI\n"), model.SolarParams{CapacityMW: 1})
	require.Error(t, err)

	for _, v := range []string{"NaN", "Inf", "-Infinity"} {
		in := "Year,Month,Day,Hour,Minute,GHI\n2021,1,1,0,0,1\n2021,1,1,1,0," + v + "\n"
		_, err = ReadSupplyCSV(strings.NewReader(in), model.SolarParams{CapacityMW: 1})
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "line 3", v)
	}
}

func TestReadDemandCSV(t *testing.T) {
	recs, err := ReadDemandCSV(strings.NewReader(loadSample), "")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, model.HourlyRecord{Year: 2021, Month: 1, Day: 1, Hour: 0, Value: 21000}, recs[0])
	assert.Equal(t, 1, recs[1].Hour)
	assert.InDelta(t, 19000.5, recs[2].Value, 1e-9)

	pge, err := ReadDemandCSV(strings.NewReader(loadSample), "pge")
	require.NoError(t, err)
	require.Len(t, pge, 1)
	assert.Equal(t, 9000.0, pge[0].Value)
}

func TestReadDemandCSVUnknownZone(t *testing.T) {
	_, err := ReadDemandCSV(strings.NewReader(loadSample), "ERCOT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CA ISO")
	assert.Contains(t, err.Error(), "PGE")
}

func TestReadDemandCSVNonFinite(t *testing.T) {
	for _, v := range []string{"NaN", "+Inf", "infinity"} {
		in := "Date,zone,load\n2021-01-01 00:00:00,CA ISO,1\n2021-01-01 01:00:00,CA ISO," + v + "\n"
		_, err := ReadDemandCSV(strings.NewReader(in), "")
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "line 3", v)
	}
}

func TestReadDemandCSVBadDate(t *testing.T) {
	_, err := ReadDemandCSV(strings.NewReader("Date,zone,load\nyesterday,CA ISO,1\n"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2021-03-04T05:00:00Z":      time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC),
		"2021-03-04T05:00:00-08:00": time.Date(2021, 3, 4, 5, 0, 0, 0, time.FixedZone("", -8*3600)),
		"2021-03-04 05:00:00":       time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC),
		"2021-03-04 05:00":          time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC),
		"3/4/2021 5:00":             time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %v", in, got)
		assert.Equal(t, 5, got.Hour(), in)
	}
	_, err := ParseDate("not a date")
	require.Error(t, err)
}

func TestAlign(t *testing.T) {
	supply := []model.HourlyRecord{
		{Year: 2021, Month: 1, Day: 1, Hour: 0, Minute: 30, Value: 1},
		{Year: 2021, Month: 1, Day: 1, Hour: 1, Minute: 30, Value: 2},
		{Year: 2021, Month: 1, Day: 1, Hour: 2, Minute: 30, Value: 3},
	}
	demand := []model.HourlyRecord{
		{Year: 2021, Month: 1, Day: 1, Hour: 2, Value: 30},
		{Year: 2021, Month: 1, Day: 1, Hour: 0, Value: 10},
		{Year: 2021, Month: 1, Day: 1, Hour: 0, Value: 99},
		{Year: 2021, Month: 1, Day: 1, Hour: 5, Value: 50},
	}

	a := Align(supply, demand)
	require.Equal(t, 2, a.Len())
	assert.Equal(t, []float64{1, 3}, model.Values(a.Supply))
	assert.Equal(t, []float64{10, 30}, model.Values(a.Demand))
	assert.Equal(t, 1, a.DroppedSupply)
	assert.Equal(t, 2, a.DroppedDemand)

	assert.Equal(t, 1, a.Truncate(1).Len())
	assert.Equal(t, 2, a.Truncate(0).Len())
	assert.Equal(t, 2, a.Truncate(10).Len())
}

func TestSeriesCache(t *testing.T) {
	c := NewSeriesCache(time.Minute)
	defer c.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	load := func() ([]model.HourlyRecord, error) {
		calls++
		return []model.HourlyRecord{{Value: 1}}, nil
	}

	key := GenerateCacheKey("supply", "a.csv", "17500")
	_, err := c.GetOrLoad(key, load)
	require.NoError(t, err)
	_, err = c.GetOrLoad(key, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())

	now = now.Add(2 * time.Minute)
	_, ok := c.Get(key)
	assert.False(t, ok)
	c.evictExpired()
	assert.Equal(t, 0, c.Len())

	_, err = c.GetOrLoad(key, func() ([]model.HourlyRecord, error) { return nil, errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	assert.NotEqual(t, key, GenerateCacheKey("supply", "a.csv", "17000"))
}

func TestFileCacheKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghi.csv")
	require.NoError(t, os.WriteFile(path, []byte(nsrdbSample), 0o644))

	first, err := FileCacheKey("supply", path, "17500")
	require.NoError(t, err)
	again, err := FileCacheKey("supply", path, "17500")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := FileCacheKey("supply", path, "1000")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	touched, err := FileCacheKey("supply", path, "17500")
	require.NoError(t, err)
	assert.NotEqual(t, first, touched)

	_, err = FileCacheKey("supply", filepath.Join(t.TempDir(), "missing.csv"), "17500")
	require.Error(t, err)
}

func TestNilSeriesCache(t *testing.T) {
	var c *SeriesCache
	recs, err := c.GetOrLoad("k", func() ([]model.HourlyRecord, error) {
		return []model.HourlyRecord{{Value: 2}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 0, c.Len())
	c.Close()
}

func TestScanDatasets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ghi.csv"), []byte(nsrdbSample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "load.csv"), []byte(loadSample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("a,b\n1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	sets, err := ScanDatasets(dir)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "ghi.csv", sets[0].Name)
	assert.Equal(t, KindSupply, sets[0].Kind)
	assert.Equal(t, KindDemand, sets[1].Kind)
	assert.Equal(t, KindUnknown, sets[2].Kind)

	path, err := ResolveDataset(dir, "ghi.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ghi.csv"), path)

	for _, bad := range []string{"", "../ghi.csv", "sub/x.csv", "..", "missing.csv", "sub.csv"} {
		_, err := ResolveDataset(dir, bad)
		assert.Error(t, err, bad)
	}

	_, err = ScanDatasets(filepath.Join(dir, "nope"))
	require.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	ghi := filepath.Join(dir, "ghi.csv")
	load := filepath.Join(dir, "load.csv")
	require.NoError(t, os.WriteFile(ghi, []byte(nsrdbSample), 0o644))
	require.NoError(t, os.WriteFile(load, []byte(loadSample), 0o644))

	supply, err := LoadSupplyCSV(ghi, model.SolarParams{CapacityMW: 1000})
	require.NoError(t, err)
	demand, err := LoadDemandCSV(load, DefaultZone)
	require.NoError(t, err)

	a := Align(supply, demand)
	assert.Equal(t, 3, a.Len())
	assert.InDelta(t, 500.0, a.Supply[2].Value, 1e-9)

	_, err = LoadSupplyCSV(filepath.Join(dir, "missing.csv"), model.SolarParams{CapacityMW: 1})
	require.Error(t, err)
}
