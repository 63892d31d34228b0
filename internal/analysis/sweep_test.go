package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-storage-sim/internal/dispatch"
)

var (
	nightSupply = []float64{0, 0, 0, 0}
	flatDemand  = []float64{10, 10, 10, 10}
)

func TestSweepOrderAndRanking(t *testing.T) {
	caps := []float64{50, 0, 15, 40}
	points, err := Sweep(context.Background(), nightSupply, flatDemand, caps)
	require.NoError(t, err)
	require.Len(t, points, 4)

	for i, c := range caps {
		assert.Equal(t, c, points[i].StorageCapacity)
		assert.Equal(t, c, points[i].Summary.StorageCapacity)
	}
	assert.Equal(t, 1.0, points[0].Summary.Reliability)
	assert.Equal(t, 0.0, points[1].Summary.Reliability)
	assert.InDelta(t, 0.375, points[2].Summary.Reliability, 1e-12)
	assert.Equal(t, 1.0, points[3].Summary.Reliability)

	ranked := RankByReliability(points)
	got := make([]float64, len(ranked))
	for i, p := range ranked {
		got[i] = p.StorageCapacity
	}
	assert.Equal(t, []float64{40, 50, 15, 0}, got)
	// input untouched
	assert.Equal(t, 50.0, points[0].StorageCapacity)
}

func TestMinimumCapacity(t *testing.T) {
	points, err := Sweep(context.Background(), nightSupply, flatDemand, []float64{50, 0, 15, 40})
	require.NoError(t, err)

	p, ok := MinimumCapacity(points, 0.3)
	require.True(t, ok)
	assert.Equal(t, 15.0, p.StorageCapacity)

	p, ok = MinimumCapacity(points, 1)
	require.True(t, ok)
	assert.Equal(t, 40.0, p.StorageCapacity)

	_, ok = MinimumCapacity(points, 1.1)
	assert.False(t, ok)
}

func TestSweepErrors(t *testing.T) {
	_, err := Sweep(context.Background(), nightSupply, flatDemand, nil)
	assert.True(t, errors.Is(err, dispatch.ErrInvalidInput))

	_, err = Sweep(context.Background(), nightSupply, flatDemand, []float64{10, -1})
	assert.True(t, errors.Is(err, dispatch.ErrInvalidInput))

	_, err = Sweep(context.Background(), nightSupply, flatDemand[:2], []float64{10})
	assert.True(t, errors.Is(err, dispatch.ErrInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, nightSupply, flatDemand, []float64{10, 20})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepMatchesSimulate(t *testing.T) {
	supply := []float64{0, 30, 5, 0, 40, 0}
	demand := []float64{10, 10, 10, 10, 10, 10}
	points, err := Sweep(context.Background(), supply, demand, []float64{25}, dispatch.WithClampedStart())
	require.NoError(t, err)

	out, err := dispatch.Simulate(supply, demand, 25, dispatch.WithClampedStart())
	require.NoError(t, err)
	assert.Equal(t, SummarizeOutputs(out, 25), points[0].Summary)
}
