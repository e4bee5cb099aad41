package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFitNumeric(t *testing.T) {
	cases := []struct {
		value string
		want  error
	}{
		{"4.8", nil},
		{"0.01", nil},
		{"99999999.99", nil},
		{"1.10", nil},
		{"0.004", ErrDecimalScale},
		{"1.114", ErrDecimalScale},
		{"100000000", ErrDecimalMax},
		{"100000000000", ErrDecimalMax},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FitNumeric(decimal.RequireFromString(tc.value)), tc.value)
	}
}
