package grid

import (
	"fmt"
	"runtime"
)

// Sample is the set of scalar element types a Grid may hold. The exact
// types are enumerated (no approximation) so reducers can resolve per-type
// sentinel limits with a type switch.
type Sample interface {
	uint8 | uint16 | uint32 | int8 | int16 | int32 | int64 | float32 | float64
}

// Grid is a read-only, N-dimensional array of samples stored row-major in a
// flat backing slice. The reducer and every downstream stage alias the same
// backing slice; a Grid is never copied or mutated after construction.
type Grid[T Sample] struct {
	dims    []int
	samples []T
}

// New constructs a Grid over the given backing slice. The slice is aliased,
// not copied. Returns ErrDimsMismatch if the product of dims does not equal
// len(samples). Empty dims with an empty slice is a valid degenerate grid.
func New[T Sample](dims []int, samples []T) (*Grid[T], error) {
	expected := 1
	if len(dims) == 0 {
		expected = 0
	}
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrDimsMismatch, d)
		}
		expected *= d
	}
	if expected != len(samples) {
		return nil, fmt.Errorf("%w: dims %v imply %d samples, got %d", ErrDimsMismatch, dims, expected, len(samples))
	}
	return &Grid[T]{dims: dims, samples: samples}, nil
}

// Len returns the total number of samples.
func (g *Grid[T]) Len() int { return len(g.samples) }

// Dims returns the grid's dimensions. The returned slice must not be mutated.
func (g *Grid[T]) Dims() []int { return g.dims }

// At returns the sample at the given flat (row-major) index.
func (g *Grid[T]) At(i int) T { return g.samples[i] }

// Samples returns the backing slice. Callers must treat it as read-only;
// this is the pass-through contract that lets downstream stages see the
// identical, unmodified data.
func (g *Grid[T]) Samples() []T { return g.samples }

// Region is a half-open interval [Lo, Hi) of flat sample indices. Regions
// produced by Partition are disjoint and together cover the full extent.
type Region struct {
	Lo int
	Hi int
}

// Len returns the number of samples in the region.
func (r Region) Len() int { return r.Hi - r.Lo }

// Empty reports whether the region contains no samples.
func (r Region) Empty() bool { return r.Hi <= r.Lo }

// Partition splits the extent [0, n) into at most workers near-equal,
// non-empty, disjoint regions covering it exactly. workers <= 0 means
// GOMAXPROCS. An empty extent yields no regions.
func Partition(n, workers int) []Region {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	regions := make([]Region, 0, workers)
	chunk := n / workers
	rem := n % workers
	lo := 0
	for i := 0; i < workers; i++ {
		hi := lo + chunk
		if i < rem {
			hi++
		}
		regions = append(regions, Region{Lo: lo, Hi: hi})
		lo = hi
	}
	return regions
}

// ValidatePartition checks that the given regions are each within [0, n),
// non-empty, and together cover [0, n) with no gaps and no overlap. Regions
// may be supplied in any order. An empty region set is valid only for an
// empty extent.
func ValidatePartition(n int, regions []Region) error {
	if len(regions) == 0 {
		if n != 0 {
			return fmt.Errorf("%w: no regions for extent %d", ErrPartitionGap, n)
		}
		return nil
	}

	covered := make([]bool, n)
	for _, r := range regions {
		if r.Lo < 0 || r.Hi > n || r.Empty() {
			return fmt.Errorf("%w: region [%d, %d) outside extent %d", ErrRegionOutOfBounds, r.Lo, r.Hi, n)
		}
		for i := r.Lo; i < r.Hi; i++ {
			if covered[i] {
				return fmt.Errorf("%w: index %d covered twice", ErrPartitionOverlap, i)
			}
			covered[i] = true
		}
	}
	for i, c := range covered {
		if !c {
			return fmt.Errorf("%w: index %d uncovered", ErrPartitionGap, i)
		}
	}
	return nil
}
