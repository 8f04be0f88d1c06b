package stats

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/sanspareilsmyn/pixellens/internal/grid"
)

// Result is the published, run-wide statistics of one completed reduction.
// It is replaced wholesale at the end of each successful run and is never
// observed half-updated.
type Result[T Sample] struct {
	Minimum      T
	Maximum      T
	Sum          float64
	SumOfSquares float64
	Count        int64
	Mean         float64
	Variance     float64
	Sigma        float64
}

// sentinelResult is the pre-first-run and empty-run state: zero count, the
// Initialize min/max sentinels, and NaN for the derived statistics that a
// zero count cannot define.
func sentinelResult[T Sample]() Result[T] {
	return Result[T]{
		Minimum:  maxValue[T](),
		Maximum:  lowestValue[T](),
		Mean:     math.NaN(),
		Variance: math.NaN(),
		Sigma:    math.NaN(),
	}
}

// Reducer computes minimum, maximum, sum, sum of squares, mean, variance and
// sigma over every sample of a grid. The caller partitions the grid into
// disjoint regions and calls Reduce concurrently, one call per region; each
// call returns a goroutine-local Partial. After all Reduce calls complete,
// one Merge combines the partials and publishes the Result.
//
// The reducer creates no goroutines of its own. Reduce touches no shared
// state and never blocks; Merge and the accessors synchronize on a single
// mutex held only while combining the small, worker-count-bounded partial
// set, never while scanning samples. A run that fails leaves the previously
// published Result intact.
type Reducer[T Sample] struct {
	mu        sync.Mutex
	armed     atomic.Bool
	published Result[T]
}

// NewReducer returns a reducer whose accessors report the sentinel state
// until the first completed run.
func NewReducer[T Sample]() *Reducer[T] {
	return &Reducer[T]{published: sentinelResult[T]()}
}

// Initialize starts a new run. It must be called exactly once before the
// run's Reduce calls and must not overlap with them. It does not disturb the
// Result published by a prior run.
func (r *Reducer[T]) Initialize() {
	r.armed.Store(true)
}

// Reduce scans one region, folding every sample into a fresh partial
// accumulator. The region must lie within the grid extent; an out-of-bounds
// region is rejected before any accumulation. Safe to call concurrently with
// other Reduce calls of the same run.
func (r *Reducer[T]) Reduce(g *grid.Grid[T], reg grid.Region) (Partial[T], error) {
	if !r.armed.Load() {
		return Partial[T]{}, ErrRunNotInitialized
	}
	if reg.Lo < 0 || reg.Hi > g.Len() || reg.Hi < reg.Lo {
		return Partial[T]{}, fmt.Errorf("%w: region [%d, %d), extent %d", grid.ErrRegionOutOfBounds, reg.Lo, reg.Hi, g.Len())
	}

	p := NewPartial[T]()
	if err := p.Fold(g, reg); err != nil {
		return Partial[T]{}, err
	}
	return p, nil
}

// Merge combines the partials of a run and publishes the finalized Result.
// It must run exactly once per run, after every Reduce call for that run has
// returned; the caller provides that barrier. Merging holds the reducer's
// mutex, and publication is a single swap under the same mutex, so readers
// never observe a mix of old and new data. On error the previous Result
// stays published.
func (r *Reducer[T]) Merge(partials ...Partial[T]) error {
	if !r.armed.CompareAndSwap(true, false) {
		return ErrRunNotInitialized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	combined := NewPartial[T]()
	for i := range partials {
		combined.mergeFrom(&partials[i])
	}
	if !finite(combined.sum.Value()) || !finite(combined.sumSq.Value()) {
		return fmt.Errorf("%w: merged sums not finite", ErrAccumulatorOverflow)
	}

	r.published = finalize(&combined)
	return nil
}

// finalize derives mean, variance and sigma from a combined partial. A zero
// count yields the sentinel result rather than dividing by zero. Variance is
// the population variance (divide by count, not count-1, preserving the
// filter's long-standing convention) and is clamped at zero when round-off
// drives the difference of large close sums slightly negative.
func finalize[T Sample](c *Partial[T]) Result[T] {
	if c.count == 0 {
		return sentinelResult[T]()
	}

	sum := c.sum.Value()
	sumSq := c.sumSq.Value()
	n := float64(c.count)

	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return Result[T]{
		Minimum:      c.min,
		Maximum:      c.max,
		Sum:          sum,
		SumOfSquares: sumSq,
		Count:        c.count,
		Mean:         mean,
		Variance:     variance,
		Sigma:        math.Sqrt(variance),
	}
}

// Snapshot returns a copy of the most recently published Result.
func (r *Reducer[T]) Snapshot() Result[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published
}

// Minimum returns the smallest sample of the last completed run.
func (r *Reducer[T]) Minimum() T { return r.Snapshot().Minimum }

// Maximum returns the largest sample of the last completed run.
func (r *Reducer[T]) Maximum() T { return r.Snapshot().Maximum }

// Sum returns the compensated sample sum of the last completed run.
func (r *Reducer[T]) Sum() float64 { return r.Snapshot().Sum }

// SumOfSquares returns the compensated sum of squared samples of the last
// completed run.
func (r *Reducer[T]) SumOfSquares() float64 { return r.Snapshot().SumOfSquares }

// Count returns the number of samples of the last completed run.
func (r *Reducer[T]) Count() int64 { return r.Snapshot().Count }

// Mean returns the arithmetic mean of the last completed run.
func (r *Reducer[T]) Mean() float64 { return r.Snapshot().Mean }

// Variance returns the population variance of the last completed run.
func (r *Reducer[T]) Variance() float64 { return r.Snapshot().Variance }

// Sigma returns the standard deviation of the last completed run.
func (r *Reducer[T]) Sigma() float64 { return r.Snapshot().Sigma }
