package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorderWithRegistry(reg)
	require.NoError(t, err)

	rec.RecordRun(24, 150*time.Millisecond, 12.5)
	rec.RecordRun(48, 10*time.Millisecond, 3)
	rec.RecordFailure(OutcomeInvalid)

	expected := `
# HELP simulation_runs_total Total number of simulation runs by outcome
# TYPE simulation_runs_total counter
simulation_runs_total{outcome="invalid"} 1
simulation_runs_total{outcome="success"} 2
`
	require.NoError(t, testutil.CollectAndCompare(rec.runs, strings.NewReader(expected)))
	assert.Equal(t, 72.0, testutil.ToFloat64(rec.hours))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.unmet))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestRecorderRequests(t *testing.T) {
	rec, err := NewRecorderWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	rec.RecordRequest("GET", "/health", 200)
	rec.RecordRequest("GET", "", 404)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorderWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewRecorderWithRegistry(reg)
	require.NoError(t, err)

	first.RecordRun(1, time.Millisecond, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.hours))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.RecordRun(1, time.Second, 1)
	rec.RecordFailure(OutcomeError)
	rec.RecordRequest("GET", "/", 200)
}
