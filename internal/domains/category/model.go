package category

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// ENTITY: WasteCategory
// ============================================================
// A recyclable material type with its conversion rate.
// Deactivated categories keep their id so existing requests stay valid.
type WasteCategory struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	PointsPerKg decimal.Decimal `json:"pointsPerKg"`
	Unit        string          `json:"unit"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

const DefaultUnit = "kg"

// PointsFor converts a weight to points, rounding half away from zero.
func (c *WasteCategory) PointsFor(weight decimal.Decimal) int {
	return int(weight.Mul(c.PointsPerKg).Round(0).IntPart())
}
