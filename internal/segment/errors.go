package segment

import "errors"

// Error kinds surfaced by the segmentation pipeline. Callers match them
// with errors.Is; every error is returned synchronously with no partial
// results.
var (
	// ErrConfiguration indicates an invalid or incompatible parameter
	// combination, such as a finite max duration combined with padding.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyInput indicates an input with nothing to process where at
	// least one element is required.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedInput indicates structurally broken input, such as a
	// ragged score grid or non-monotonic timestamps.
	ErrMalformedInput = errors.New("malformed input")
)
