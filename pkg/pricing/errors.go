package pricing

import "errors"

var (
	// ErrNotFinite indicates a NaN or infinite price.
	ErrNotFinite = errors.New("price is not finite")
	// ErrNotPositive indicates a zero or negative price.
	ErrNotPositive = errors.New("price must be positive")
)
