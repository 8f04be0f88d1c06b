package stats

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/sanspareilsmyn/pixellens/internal/grid"
)

func mustGrid[T Sample](t *testing.T, dims []int, samples []T) *grid.Grid[T] {
	t.Helper()
	g, err := grid.New(dims, samples)
	require.NoError(t, err)
	return g
}

// runFull reduces the whole grid using the given partition and merges once.
func runFull[T Sample](t *testing.T, r *Reducer[T], g *grid.Grid[T], regions []grid.Region) {
	t.Helper()
	r.Initialize()
	partials := make([]Partial[T], 0, len(regions))
	for _, reg := range regions {
		p, err := r.Reduce(g, reg)
		require.NoError(t, err)
		partials = append(partials, p)
	}
	require.NoError(t, r.Merge(partials...))
}

func TestReducerKnownDistribution(t *testing.T) {
	g := mustGrid(t, []int{5}, []float64{1, 2, 3, 4, 5})
	r := NewReducer[float64]()
	runFull(t, r, g, []grid.Region{{Lo: 0, Hi: 5}})

	assert.Equal(t, 1.0, r.Minimum())
	assert.Equal(t, 5.0, r.Maximum())
	assert.Equal(t, int64(5), r.Count())
	assert.InDelta(t, 15.0, r.Sum(), 1e-12)
	assert.InDelta(t, 55.0, r.SumOfSquares(), 1e-12)
	assert.InDelta(t, 3.0, r.Mean(), 1e-12)
	assert.InDelta(t, 2.0, r.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(2.0), r.Sigma(), 1e-12)
}

func TestReducerMultiRegionMergeMatchesSingleRegion(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	g := mustGrid(t, []int{5}, samples)

	single := NewReducer[float64]()
	runFull(t, single, g, []grid.Region{{Lo: 0, Hi: 5}})

	split := NewReducer[float64]()
	split.Initialize()

	// Two regions reduced on separate goroutines, then merged once.
	var wg sync.WaitGroup
	partials := make([]Partial[float64], 2)
	errs := make([]error, 2)
	regions := []grid.Region{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 5}}
	for i, reg := range regions {
		wg.Add(1)
		go func(i int, reg grid.Region) {
			defer wg.Done()
			partials[i], errs[i] = split.Reduce(g, reg)
		}(i, reg)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, split.Merge(partials...))

	assert.Equal(t, single.Minimum(), split.Minimum())
	assert.Equal(t, single.Maximum(), split.Maximum())
	assert.Equal(t, single.Count(), split.Count())
	assert.InDelta(t, single.Sum(), split.Sum(), 1e-9)
	assert.InDelta(t, single.Mean(), split.Mean(), 1e-9)
	assert.InDelta(t, single.Variance(), split.Variance(), 1e-9)
	assert.InDelta(t, single.Sigma(), split.Sigma(), 1e-9)
}

func TestReducerPartitionInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := make([]float64, 10_000)
	for i := range samples {
		samples[i] = rng.NormFloat64()*12 + 100
	}
	g := mustGrid(t, []int{100, 100}, samples)

	baseline := NewReducer[float64]()
	runFull(t, baseline, g, grid.Partition(g.Len(), 1))

	for _, workers := range []int{2, 3, 7, 64} {
		r := NewReducer[float64]()
		runFull(t, r, g, grid.Partition(g.Len(), workers))

		assert.Equal(t, baseline.Minimum(), r.Minimum(), "workers=%d", workers)
		assert.Equal(t, baseline.Maximum(), r.Maximum(), "workers=%d", workers)
		assert.Equal(t, baseline.Count(), r.Count(), "workers=%d", workers)
		assert.InEpsilon(t, baseline.Mean(), r.Mean(), 1e-9, "workers=%d", workers)
		assert.InEpsilon(t, baseline.Variance(), r.Variance(), 1e-9, "workers=%d", workers)
		assert.InEpsilon(t, baseline.Sigma(), r.Sigma(), 1e-9, "workers=%d", workers)
	}
}

func TestReducerMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 5_000)
	for i := range samples {
		samples[i] = rng.Float64()*1000 - 500
	}
	g := mustGrid(t, []int{5000}, samples)

	r := NewReducer[float64]()
	runFull(t, r, g, grid.Partition(g.Len(), 8))

	assert.InDelta(t, stat.Mean(samples, nil), r.Mean(), 1e-9)
	assert.InEpsilon(t, stat.PopVariance(samples, nil), r.Variance(), 1e-9)
	assert.InEpsilon(t, stat.PopStdDev(samples, nil), r.Sigma(), 1e-9)
}

func TestReducerIdempotence(t *testing.T) {
	samples := []float32{3.5, -1.25, 7, 0}
	g := mustGrid(t, []int{4}, samples)

	r := NewReducer[float32]()
	runFull(t, r, g, grid.Partition(g.Len(), 2))
	first := r.Snapshot()

	runFull(t, r, g, grid.Partition(g.Len(), 2))
	second := r.Snapshot()

	assert.Equal(t, first, second)
}

func TestReducerSingleSample(t *testing.T) {
	g := mustGrid(t, []int{1}, []int32{42})
	r := NewReducer[int32]()
	runFull(t, r, g, []grid.Region{{Lo: 0, Hi: 1}})

	assert.Equal(t, int32(42), r.Minimum())
	assert.Equal(t, int32(42), r.Maximum())
	assert.Equal(t, int64(1), r.Count())
	assert.Equal(t, 42.0, r.Mean())
	assert.Equal(t, 0.0, r.Variance())
	assert.Equal(t, 0.0, r.Sigma())
}

func TestReducerEmptyRunPublishesSentinels(t *testing.T) {
	r := NewReducer[uint8]()
	r.Initialize()
	require.NoError(t, r.Merge())

	assert.Equal(t, uint8(math.MaxUint8), r.Minimum())
	assert.Equal(t, uint8(0), r.Maximum())
	assert.Equal(t, int64(0), r.Count())
	assert.True(t, math.IsNaN(r.Mean()))
	assert.True(t, math.IsNaN(r.Variance()))
	assert.True(t, math.IsNaN(r.Sigma()))
}

func TestReducerAccessorsBeforeFirstRun(t *testing.T) {
	r := NewReducer[int16]()

	assert.Equal(t, int16(math.MaxInt16), r.Minimum())
	assert.Equal(t, int16(math.MinInt16), r.Maximum())
	assert.Equal(t, int64(0), r.Count())
	assert.True(t, math.IsNaN(r.Mean()))
}

func TestReducerRejectsOutOfBoundsRegion(t *testing.T) {
	g := mustGrid(t, []int{4}, []float64{1, 2, 3, 4})
	r := NewReducer[float64]()
	r.Initialize()

	_, err := r.Reduce(g, grid.Region{Lo: 2, Hi: 9})
	assert.ErrorIs(t, err, grid.ErrRegionOutOfBounds)

	_, err = r.Reduce(g, grid.Region{Lo: -1, Hi: 2})
	assert.ErrorIs(t, err, grid.ErrRegionOutOfBounds)
}

func TestReducerRequiresInitialize(t *testing.T) {
	g := mustGrid(t, []int{2}, []float64{1, 2})
	r := NewReducer[float64]()

	_, err := r.Reduce(g, grid.Region{Lo: 0, Hi: 2})
	assert.ErrorIs(t, err, ErrRunNotInitialized)
	assert.ErrorIs(t, r.Merge(), ErrRunNotInitialized)

	// A second Merge for the same run is also rejected.
	r.Initialize()
	require.NoError(t, r.Merge())
	assert.ErrorIs(t, r.Merge(), ErrRunNotInitialized)
}

func TestReducerOverflowSurfacesAndPreservesPreviousResult(t *testing.T) {
	good := mustGrid(t, []int{5}, []float64{1, 2, 3, 4, 5})
	r := NewReducer[float64]()
	runFull(t, r, good, []grid.Region{{Lo: 0, Hi: 5}})
	previous := r.Snapshot()

	// Squaring MaxFloat64 overflows the accumulator immediately.
	huge := mustGrid(t, []int{2}, []float64{math.MaxFloat64, math.MaxFloat64})
	r.Initialize()
	_, err := r.Reduce(huge, grid.Region{Lo: 0, Hi: 2})
	require.ErrorIs(t, err, ErrAccumulatorOverflow)

	// The failed run never reached Merge; the published result is intact.
	assert.Equal(t, previous, r.Snapshot())
}

func TestReducerConcurrentAccessorsDuringRun(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	samples := make([]float64, 4_096)
	for i := range samples {
		samples[i] = rng.Float64()
	}
	g := mustGrid(t, []int{4096}, samples)

	// Readers must always observe a complete result: either the sentinel
	// state or a fully finalized run, never a mix.
	r := NewReducer[float64]()
	stop := make(chan struct{})
	var torn int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				snap := r.Snapshot()
				sentinel := snap.Count == 0 && math.IsNaN(snap.Mean)
				complete := snap.Count == 4096 && !math.IsNaN(snap.Mean)
				if !sentinel && !complete {
					torn++
					return
				}
			}
		}
	}()

	for i := 0; i < 50; i++ {
		runFull(t, r, g, grid.Partition(g.Len(), 4))
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, torn, "reader observed a partially published result")
}
