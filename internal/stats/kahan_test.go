package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompensatedSumMatchesExactSmallSeries(t *testing.T) {
	var c CompensatedSum
	for _, v := range []float64{1, 2, 3, 4, 5} {
		c.Add(v)
	}
	assert.Equal(t, 15.0, c.Value())
}

func TestCompensatedSumBoundsDriftOnLongSeries(t *testing.T) {
	// Summing 1e7 copies of 0.1 exactly yields 1e6. Naive summation drifts
	// with the term count; compensated summation must not.
	const (
		terms = 10_000_000
		value = 0.1
	)
	exact := float64(terms) * value

	naive := 0.0
	var compensated CompensatedSum
	for i := 0; i < terms; i++ {
		naive += value
		compensated.Add(value)
	}

	naiveErr := math.Abs(naive - exact)
	compErr := math.Abs(compensated.Value() - exact)

	require.Greater(t, naiveErr, 0.0, "naive summation of 0.1 must drift")
	assert.Less(t, compErr, naiveErr/100, "compensated error should be far below naive drift")
	assert.InDelta(t, exact, compensated.Value(), 1e-6)
}

func TestCompensatedSumMergeEqualsSequential(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 1e10, -1e10, 0.4, 0.5, 1e-7}

	var whole CompensatedSum
	for _, v := range values {
		whole.Add(v)
	}

	var left, right CompensatedSum
	for _, v := range values[:4] {
		left.Add(v)
	}
	for _, v := range values[4:] {
		right.Add(v)
	}
	left.MergeFrom(right)

	assert.InDelta(t, whole.Value(), left.Value(), 1e-9)
}

func TestCompensatedSumReset(t *testing.T) {
	var c CompensatedSum
	c.Add(0.1)
	c.Add(0.2)
	c.Reset()
	assert.Equal(t, 0.0, c.Value())
	c.Add(3)
	assert.Equal(t, 3.0, c.Value())
}
