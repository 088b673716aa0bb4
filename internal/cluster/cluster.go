// Package cluster implements the fixed-center iterative refinement used to
// classify board tile samples: each sample is repeatedly reassigned to its
// nearest center and centers are recomputed as the mean of their members,
// until the per-iteration center movement falls under a threshold.
//
// This is deliberately not a general k-means: the centers are seeded by the
// caller (never randomized), their count and order are fixed, and the order
// doubles as the tie-break rule, so results are fully deterministic.
package cluster

import (
	"fmt"

	"boardscan/internal/colorspace"

	"gonum.org/v1/gonum/floats"
)

// DefaultDeltaThreshold is the default convergence threshold: iteration
// stops once the summed squared center movement drops below it. The value
// is an empirical magic number tuned for L*a*b* units, not derivable from
// first principles.
const DefaultDeltaThreshold = 0.01

// DefaultMaxIterations bounds the refinement loop so pathological inputs
// (e.g. perfectly cyclic reassignment) cannot spin forever.
const DefaultMaxIterations = 100

// StopFunc is consulted once per iteration, after that iteration's center
// update has been committed, with the iteration's delta. Returning true
// stops the loop. It runs synchronously on the caller's goroutine.
type StopFunc func(delta float64) bool

// Config configures one clustering run.
type Config struct {
	// Centers are the initial centers, one per category, in category
	// order. The order is significant: when a sample is equidistant from
	// two centers, the earlier one wins.
	Centers []colorspace.Point

	// Stop decides when to end iteration. If nil, iteration stops when
	// delta < DefaultDeltaThreshold.
	Stop StopFunc

	// MaxIterations caps the loop regardless of Stop. Zero means
	// DefaultMaxIterations.
	MaxIterations int
}

// Result is the outcome of a clustering run.
type Result struct {
	// Labels holds, for each input sample, the index of its final
	// center, in input order.
	Labels []int

	// Centers are the final center positions, same order as Config.Centers.
	Centers []colorspace.Point

	// Iterations is the number of completed assign/update iterations.
	Iterations int

	// Converged is false when the loop ended by hitting MaxIterations
	// rather than by the stop policy.
	Converged bool
}

// Run clusters the given samples around cfg.Centers. Samples must be
// non-empty and already converted to the same space as the centers
// (L*a*b* in this program).
func Run(samples []colorspace.Point, cfg Config) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to cluster: %w", colorspace.ErrInvalidInput)
	}
	if len(cfg.Centers) == 0 {
		return nil, fmt.Errorf("no cluster centers: %w", colorspace.ErrInvalidInput)
	}

	k := len(cfg.Centers)
	dim := len(cfg.Centers[0])

	centers := make([]colorspace.Point, k)
	for i, c := range cfg.Centers {
		if len(c) != dim {
			return nil, fmt.Errorf("center %d has length %d, want %d: %w",
				i, len(c), dim, colorspace.ErrInvalidInput)
		}
		centers[i] = append(colorspace.Point(nil), c...)
	}

	stop := cfg.Stop
	if stop == nil {
		stop = func(delta float64) bool { return delta < DefaultDeltaThreshold }
	}
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}

	labels := make([]int, len(samples))
	sums := make([]colorspace.Point, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make(colorspace.Point, dim)
	}

	res := &Result{Labels: labels, Centers: centers}

	for iter := 0; iter < maxIter; iter++ {
		// Assignment: nearest center wins; on an exact distance tie the
		// center with the lower index wins, which is why the comparison
		// below is strict.
		for i, s := range samples {
			best := 0
			bestDist, err := colorspace.DistanceSq(s, centers[0])
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			for j := 1; j < k; j++ {
				d, err := colorspace.DistanceSq(s, centers[j])
				if err != nil {
					return nil, fmt.Errorf("sample %d: %w", i, err)
				}
				if d < bestDist {
					bestDist = d
					best = j
				}
			}
			labels[i] = best
		}

		// Update: each center moves to the mean of its members. A center
		// with no members keeps its previous position and contributes
		// nothing to delta, so unused categories stay at their seeds.
		for j := range sums {
			for d := range sums[j] {
				sums[j][d] = 0
			}
			counts[j] = 0
		}
		for i, lbl := range labels {
			floats.Add(sums[lbl], samples[i])
			counts[lbl]++
		}

		var delta float64
		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			d, err := colorspace.DistanceSq(centers[j], sums[j])
			if err != nil {
				return nil, fmt.Errorf("center %d: %w", j, err)
			}
			delta += d
			centers[j], sums[j] = sums[j], centers[j]
		}

		res.Iterations = iter + 1
		if stop(delta) {
			res.Converged = true
			break
		}
	}

	return res, nil
}
