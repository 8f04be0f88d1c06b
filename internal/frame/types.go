package frame

// DType names the scalar type of a frame's samples on the wire.
type DType string

const (
	DTypeUint8   DType = "uint8"
	DTypeUint16  DType = "uint16"
	DTypeInt16   DType = "int16"
	DTypeInt32   DType = "int32"
	DTypeFloat32 DType = "float32"
	DTypeFloat64 DType = "float64"
)

// Valid reports whether the dtype is one the analyzer can dispatch on.
func (d DType) Valid() bool {
	switch d {
	case DTypeUint8, DTypeUint16, DTypeInt16, DTypeInt32, DTypeFloat32, DTypeFloat64:
		return true
	}
	return false
}

// Frame is one decoded N-dimensional sample array received from the stream.
// Samples arrive as JSON numbers (float64) and are converted to the declared
// dtype when the typed grid is built; the frame itself is read-only after
// parsing.
type Frame struct {
	FrameID string    `json:"frame_id"`
	Source  string    `json:"source"`
	DType   DType     `json:"dtype"`
	Dims    []int     `json:"dims"`
	Samples []float64 `json:"samples"`
}

// Len returns the number of samples the dims imply. Empty dims denote a
// degenerate, zero-sample frame.
func (f *Frame) Len() int {
	if len(f.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range f.Dims {
		n *= d
	}
	return n
}
