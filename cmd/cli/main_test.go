package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	supplyCSV = `Source,Location ID,City,State,Country,Latitude,Longitude
NSRDB,123456,-,-,-,36.77,-119.41
Year,Month,Day,Hour,Minute,GHI,Temperature
2021,1,1,0,30,0,5.1
2021,1,1,1,30,0,4.9
2021,1,1,12,30,500,12.0
`
	demandCSV = `Date,zone,load
2021-01-01 00:00:00,CA ISO,21000
2021-01-01 01:00:00,CA ISO,20500
2021-01-01 12:00:00,CA ISO,19000.5
`
	scenarioYAML = `storage:
  name: Test pool
  capacity_mwh: 15
solar:
  capacity_mw: 1000
  file: solar.csv
demand:
  file: load.csv
`
)

func writeScenario(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solar.csv"), []byte(supplyCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "load.csv"), []byte(demandCSV), 0o644))
	cfgPath = filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(scenarioYAML), 0o644))
	return dir, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSimulateAndSummary(t *testing.T) {
	dir, cfgPath := writeScenario(t)
	outPath := filepath.Join(dir, "results", "dispatch.csv")
	dbPath := filepath.Join(dir, "runs.db")

	out, err := execute(t, "simulate", "--config", cfgPath, "--out", outPath, "--store", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 rows to "+outPath)
	assert.Contains(t, out, "Hours=3 Storage=15.0 MWh")
	assert.Contains(t, out, "Stored run ")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2021,1,1,0,21000,0,"))

	out, err = execute(t, "summary", "--table", outPath, "--capacity", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Hours=3 Storage=15.0 MWh")
	assert.Contains(t, out, "Hours charging=0 idle=2 discharging=1")
}

func TestSimulateLimit(t *testing.T) {
	dir, cfgPath := writeScenario(t)
	outPath := filepath.Join(dir, "out.csv")

	out, err := execute(t, "simulate", "--config", cfgPath, "--out", outPath, "--n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows")
}

func TestSweep(t *testing.T) {
	_, cfgPath := writeScenario(t)

	out, err := execute(t, "sweep", "--config", cfgPath, "--capacities", "0, 15, 1e6", "--target", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Minimum capacity for reliability 0.5000: 1000000.0 MWh")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "1    1000000.0"), lines[1])

	out, err = execute(t, "sweep", "--config", cfgPath, "--capacities", "0", "--target", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, "No capacity reached reliability 0.9000")
}

func TestCommandErrors(t *testing.T) {
	_, cfgPath := writeScenario(t)

	_, err := execute(t, "simulate")
	assert.Error(t, err)

	_, err = execute(t, "sweep", "--config", cfgPath, "--capacities", "a,b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid capacity")

	_, err = execute(t, "sweep", "--config", cfgPath, "--capacities", "1", "--target", "2")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "summary", "--table", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
