package utils

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Weights and rates are stored as NUMERIC(10, 2).
const numericScale = 2

var maxNumeric = decimal.New(9999999999, -numericScale)

var (
	ErrDecimalScale = validation.NewError("validation_decimal_scale", "must have at most 2 decimal places")
	ErrDecimalMax   = validation.NewError("validation_decimal_max", "must not exceed 99999999.99")
)

// FitNumeric reports whether d is stored by a NUMERIC(10, 2) column
// unchanged: no rounding and no overflow.
func FitNumeric(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(numericScale)) {
		return ErrDecimalScale
	}
	if d.Abs().GreaterThan(maxNumeric) {
		return ErrDecimalMax
	}
	return nil
}
