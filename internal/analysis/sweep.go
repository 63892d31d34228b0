package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"solar-storage-sim/internal/dispatch"
)

// SweepPoint is the outcome of simulating one storage capacity.
type SweepPoint struct {
	StorageCapacity float64 `json:"storage_capacity"`
	Summary         Summary `json:"summary"`
}

// Sweep simulates every capacity against the same series. Points come back
// in the order of capacities.
func Sweep(ctx context.Context, supply, demand, capacities []float64, opts ...dispatch.Option) ([]SweepPoint, error) {
	if len(capacities) == 0 {
		return nil, fmt.Errorf("sweep: no capacities: %w", dispatch.ErrInvalidInput)
	}

	points := make([]SweepPoint, len(capacities))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range capacities {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outputs, err := dispatch.Simulate(supply, demand, c, opts...)
			if err != nil {
				return fmt.Errorf("capacity %g: %w", c, err)
			}
			points[i] = SweepPoint{StorageCapacity: c, Summary: SummarizeOutputs(outputs, c)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	return points, nil
}

// RankByReliability sorts a copy of points by descending reliability, then by
// ascending capacity.
func RankByReliability(points []SweepPoint) []SweepPoint {
	out := make([]SweepPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Summary.Reliability != out[j].Summary.Reliability {
			return out[i].Summary.Reliability > out[j].Summary.Reliability
		}
		return out[i].StorageCapacity < out[j].StorageCapacity
	})
	return out
}

// MinimumCapacity returns the smallest capacity whose reliability reaches target.
func MinimumCapacity(points []SweepPoint, target float64) (SweepPoint, bool) {
	var best SweepPoint
	found := false
	for _, p := range points {
		if p.Summary.Reliability+tolerance < target {
			continue
		}
		if !found || p.StorageCapacity < best.StorageCapacity {
			best, found = p, true
		}
	}
	return best, found
}
