package binance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kline is one record of the klines response. On the wire it is a positional
// JSON array: index 0 is the bucket open time in milliseconds, indexes 1-4
// are string-encoded open/high/low/close prices, index 5 is the base volume.
// Anything that does not match this shape is a parse failure.
type Kline struct {
	OpenTime int64
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// UnmarshalJSON populates the named fields by position.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: not an array: %v", ErrMalformedKline, err)
	}
	if len(raw) < 6 {
		return fmt.Errorf("%w: got %d fields, want at least 6", ErrMalformedKline, len(raw))
	}

	if err := json.Unmarshal(raw[0], &k.OpenTime); err != nil {
		return fmt.Errorf("%w: open time is not a number: %v", ErrMalformedKline, err)
	}

	fields := []struct {
		name string
		idx  int
		dst  *decimal.Decimal
	}{
		{"open", 1, &k.Open},
		{"high", 2, &k.High},
		{"low", 3, &k.Low},
		{"close", 4, &k.Close},
		{"volume", 5, &k.Volume},
	}
	for _, f := range fields {
		var s string
		if err := json.Unmarshal(raw[f.idx], &s); err != nil {
			return fmt.Errorf("%w: %s price is not a string: %v", ErrMalformedKline, f.name, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("%w: failed to parse %s price %q: %v", ErrMalformedKline, f.name, s, err)
		}
		*f.dst = d
	}

	return nil
}
