package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidFrame(t *testing.T) {
	payload := []byte(`{
		"frame_id": "frame-000001",
		"source": "camera-0",
		"dtype": "uint8",
		"dims": [2, 3],
		"samples": [0, 10, 20, 30, 40, 255]
	}`)

	f, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, "frame-000001", f.FrameID)
	assert.Equal(t, "camera-0", f.Source)
	assert.Equal(t, DTypeUint8, f.DType)
	assert.Equal(t, []int{2, 3}, f.Dims)
	assert.Equal(t, 6, f.Len())
	assert.Len(t, f.Samples, 6)
}

func TestParseDegenerateFrame(t *testing.T) {
	payload := []byte(`{"frame_id": "empty", "source": "camera-0", "dtype": "float64", "dims": [], "samples": []}`)

	f, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestParseRejectsBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"frame_id": `))
	assert.ErrorIs(t, err, ErrJSONUnmarshalFailed)
}

func TestParseRejectsUnknownDType(t *testing.T) {
	payload := []byte(`{"frame_id": "x", "source": "s", "dtype": "complex128", "dims": [1], "samples": [0]}`)
	_, err := Parse(payload)
	assert.ErrorIs(t, err, ErrUnknownDType)
}

func TestParseRejectsDimsMismatch(t *testing.T) {
	payload := []byte(`{"frame_id": "x", "source": "s", "dtype": "uint8", "dims": [2, 2], "samples": [1, 2, 3]}`)
	_, err := Parse(payload)
	assert.ErrorIs(t, err, ErrDimsMismatch)

	payload = []byte(`{"frame_id": "x", "source": "s", "dtype": "uint8", "dims": [-1], "samples": []}`)
	_, err = Parse(payload)
	assert.ErrorIs(t, err, ErrDimsMismatch)
}

func TestDTypeValid(t *testing.T) {
	for _, d := range []DType{DTypeUint8, DTypeUint16, DTypeInt16, DTypeInt32, DTypeFloat32, DTypeFloat64} {
		assert.True(t, d.Valid(), string(d))
	}
	assert.False(t, DType("string").Valid())
	assert.False(t, DType("").Valid())
}
