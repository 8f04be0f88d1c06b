package stats

import (
	"fmt"
	"math"

	"github.com/sanspareilsmyn/pixellens/internal/grid"
)

// Sample is the set of scalar types the reducer accepts.
type Sample = grid.Sample

// Partial holds the running aggregates accumulated by one goroutine over its
// regions of a run. Partials are never shared: each concurrent Reduce call
// owns exactly one, so folding requires no locking.
type Partial[T Sample] struct {
	min   T
	max   T
	sum   CompensatedSum
	sumSq CompensatedSum
	count int64
}

// NewPartial returns an empty partial with the running minimum set to the
// sample type's largest value and the running maximum to its lowest, so the
// first folded sample replaces both.
func NewPartial[T Sample]() Partial[T] {
	return Partial[T]{
		min: maxValue[T](),
		max: lowestValue[T](),
	}
}

// Fold scans every sample of the region exactly once, in flat index order,
// updating min/max/sum/sumSq/count. Sums accumulate in float64 regardless of
// the sample type. Returns ErrAccumulatorOverflow if either compensated sum
// leaves the finite range; the partial must then be discarded.
func (p *Partial[T]) Fold(g *grid.Grid[T], r grid.Region) error {
	for i := r.Lo; i < r.Hi; i++ {
		s := g.At(i)
		if s < p.min {
			p.min = s
		}
		if s > p.max {
			p.max = s
		}
		v := float64(s)
		p.sum.Add(v)
		p.sumSq.Add(v * v)
	}
	p.count += int64(r.Len())

	if !finite(p.sum.Value()) || !finite(p.sumSq.Value()) {
		return fmt.Errorf("%w: region [%d, %d)", ErrAccumulatorOverflow, r.Lo, r.Hi)
	}
	return nil
}

// finite reports whether the accumulated value is still a usable real.
// Overflow first produces an infinity; the compensation arithmetic then
// degrades it to NaN, so both must be treated as overflow.
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// mergeFrom folds another partial into this one. Min and max combine
// exactly; sums combine by compensated merge, so the result is independent
// of merge order up to round-off.
func (p *Partial[T]) mergeFrom(other *Partial[T]) {
	if other.min < p.min {
		p.min = other.min
	}
	if other.max > p.max {
		p.max = other.max
	}
	p.sum.MergeFrom(other.sum)
	p.sumSq.MergeFrom(other.sumSq)
	p.count += other.count
}

// Count returns the number of samples folded so far.
func (p *Partial[T]) Count() int64 { return p.count }
