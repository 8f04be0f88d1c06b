package stats

// CompensatedSum is a running summation using Kahan's compensated algorithm.
// It tracks a correction term alongside the sum so that accumulation error
// stays bounded regardless of how many terms are added, instead of growing
// with the term count as naive summation does.
//
// A CompensatedSum is owned by a single goroutine for the duration of a run;
// it performs no locking.
type CompensatedSum struct {
	sum          float64
	compensation float64
}

// Add folds one more term into the sum.
func (c *CompensatedSum) Add(val float64) {
	y := val - c.compensation
	t := c.sum + y
	c.compensation = (t - c.sum) - y
	c.sum = t
}

// MergeFrom combines another accumulator into this one: the other's
// compensated value is added as one more term and its correction is carried
// forward. The combined result is independent of merge order up to
// floating-point round-off.
func (c *CompensatedSum) MergeFrom(other CompensatedSum) {
	c.Add(other.sum)
	c.compensation += other.compensation
}

// Value returns the current compensated sum.
func (c *CompensatedSum) Value() float64 {
	return c.sum - c.compensation
}

// Reset sets the sum and correction back to zero.
func (c *CompensatedSum) Reset() {
	c.sum = 0
	c.compensation = 0
}
