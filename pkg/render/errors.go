package render

import "errors"

var (
	// ErrZeroArea is returned when a render target would have no pixels.
	ErrZeroArea = errors.New("render: zero-area render target")

	// ErrInvalidCamera is returned when a camera's projection parameters
	// cannot produce a usable projection.
	ErrInvalidCamera = errors.New("render: invalid camera")
)
