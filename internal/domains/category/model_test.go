package category

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPointsForRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		rate   string
		weight string
		want   int
	}{
		{"10", "4.8", 48},
		{"10", "0.04", 0},
		{"10", "0.05", 1},
		{"2.5", "1.1", 3},    // 2.75
		{"2.5", "1.3", 3},    // 3.25
		{"4", "0.125", 1},    // 0.5
		{"15", "12.34", 185}, // 185.1
	}

	for _, tc := range cases {
		c := WasteCategory{PointsPerKg: decimal.RequireFromString(tc.rate)}
		assert.Equal(t, tc.want, c.PointsFor(decimal.RequireFromString(tc.weight)), "%s x %s", tc.weight, tc.rate)
	}
}

func TestCreateRequestValidate(t *testing.T) {
	ok := CreateRequest{Name: "Plastic", PointsPerKg: decimal.NewFromInt(10)}
	assert.NoError(t, ok.Validate())

	zero := CreateRequest{Name: "Plastic", PointsPerKg: decimal.Zero}
	assert.Error(t, zero.Validate())

	negative := decimal.NewFromInt(-1)
	assert.Error(t, UpdateRequest{PointsPerKg: &negative}.Validate())
	assert.NoError(t, UpdateRequest{}.Validate())

	precise := decimal.RequireFromString("0.455")
	assert.Error(t, UpdateRequest{PointsPerKg: &precise}.Validate())

	huge := CreateRequest{Name: "Plastic", PointsPerKg: decimal.RequireFromString("1000000000")}
	assert.Error(t, huge.Validate())
}
