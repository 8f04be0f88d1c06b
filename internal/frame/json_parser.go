package frame

import (
	"encoding/json"
	"fmt"
)

// Parse decodes a frame payload from a byte slice and validates it. It
// returns ErrJSONUnmarshalFailed (wrapping the original error) if decoding
// fails, ErrUnknownDType for an unrecognized dtype, and ErrDimsMismatch if
// the declared dims do not account for the sample count.
func Parse(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}

	if !f.DType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDType, f.DType)
	}
	for _, d := range f.Dims {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrDimsMismatch, d)
		}
	}
	if f.Len() != len(f.Samples) {
		return nil, fmt.Errorf("%w: dims %v imply %d samples, got %d", ErrDimsMismatch, f.Dims, f.Len(), len(f.Samples))
	}
	return &f, nil
}
