package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsPositivePrices(t *testing.T) {
	for _, price := range []float64{0.00001, 1, 999.99, 50000, 1_000_000, 5_000_000} {
		assert.NoError(t, Validate(price), "price %v should be accepted", price)
	}
}

func TestValidate_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name  string
		price float64
	}{
		{"zero", 0},
		{"negative", -100},
		{"tiny negative", -0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.price)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotPositive)
		})
	}
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		price float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.price)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFinite)
		})
	}
}

func TestPlausibility(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  Flag
	}{
		{"below low bound", 999.99, FlagTooLow},
		{"at low bound", 1000, FlagNone},
		{"typical", 50000, FlagNone},
		{"at high bound", 1_000_000, FlagNone},
		{"above high bound", 1_000_000.01, FlagTooHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plausibility(tt.price))
		})
	}
}
