package stats

import "errors"

var (
	ErrRunNotInitialized   = errors.New("reducer run not initialized")
	ErrAccumulatorOverflow = errors.New("statistics accumulator overflowed")
)
