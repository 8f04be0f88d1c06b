package grid

import "errors"

var (
	ErrDimsMismatch      = errors.New("grid dimensions do not match sample count")
	ErrRegionOutOfBounds = errors.New("region lies outside the grid extent")
	ErrPartitionOverlap  = errors.New("regions overlap")
	ErrPartitionGap      = errors.New("regions leave part of the extent uncovered")
)
