// Package pricing provides price sanity validation shared by the API layer
// and the ingestion client.
package pricing

import (
	"fmt"
	"math"
)

// Sanity bounds for the tracked asset (USD). Prices outside these bounds are
// accepted but flagged for observability; they are not calibrated for other
// assets.
const (
	LowSanityBound  = 1000.0
	HighSanityBound = 1_000_000.0
)

// Flag classifies an accepted price against the sanity bounds.
type Flag int

const (
	// FlagNone means the price is within the sanity bounds.
	FlagNone Flag = iota
	// FlagTooLow means the price is below LowSanityBound.
	FlagTooLow
	// FlagTooHigh means the price is above HighSanityBound.
	FlagTooHigh
)

// String returns the bound name for metric labels.
func (f Flag) String() string {
	switch f {
	case FlagTooLow:
		return "low"
	case FlagTooHigh:
		return "high"
	default:
		return "none"
	}
}

// Validate rejects structurally absurd prices. A price must be finite and
// strictly positive; anything else must never reach the aggregation engine.
func Validate(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrNotFinite, price)
	}
	if price <= 0 {
		return fmt.Errorf("%w: got %v", ErrNotPositive, price)
	}
	return nil
}

// Plausibility classifies an already-validated price against the sanity
// bounds. Out-of-bound prices are a warning signal, not a rejection.
func Plausibility(price float64) Flag {
	if price < LowSanityBound {
		return FlagTooLow
	}
	if price > HighSanityBound {
		return FlagTooHigh
	}
	return FlagNone
}
