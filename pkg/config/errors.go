package config

import "errors"

var (
	// ErrInvalidMode indicates an unknown run mode.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrMissingSubmitURL indicates a standalone reporter without a target server.
	ErrMissingSubmitURL = errors.New("missing submit_url")
	// ErrInvalidConfig indicates a field-level validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)
