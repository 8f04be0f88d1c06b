package frame

import "errors"

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal frame payload")
	ErrUnknownDType        = errors.New("unknown frame dtype")
	ErrDimsMismatch        = errors.New("frame dims do not match sample count")
)
