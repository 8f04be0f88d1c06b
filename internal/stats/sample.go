package stats

import "math"

// maxValue returns the largest representable value of the sample type. It is
// the Initialize sentinel for the running minimum.
func maxValue[T Sample]() T {
	var z T
	switch p := any(&z).(type) {
	case *uint8:
		*p = math.MaxUint8
	case *uint16:
		*p = math.MaxUint16
	case *uint32:
		*p = math.MaxUint32
	case *int8:
		*p = math.MaxInt8
	case *int16:
		*p = math.MaxInt16
	case *int32:
		*p = math.MaxInt32
	case *int64:
		*p = math.MaxInt64
	case *float32:
		*p = math.MaxFloat32
	case *float64:
		*p = math.MaxFloat64
	}
	return z
}

// lowestValue returns the most negative (or zero, for unsigned types)
// representable value of the sample type. It is the Initialize sentinel for
// the running maximum.
func lowestValue[T Sample]() T {
	var z T
	switch p := any(&z).(type) {
	case *int8:
		*p = math.MinInt8
	case *int16:
		*p = math.MinInt16
	case *int32:
		*p = math.MinInt32
	case *int64:
		*p = math.MinInt64
	case *float32:
		*p = -math.MaxFloat32
	case *float64:
		*p = -math.MaxFloat64
	}
	return z
}
