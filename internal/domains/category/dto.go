package category

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/shared/utils"
)

var errNotPositive = validation.NewError("validation_positive", "must be greater than zero")

// positive also requires the rate to fit points_per_kg NUMERIC(10, 2).
var positive = validation.By(func(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if !d.IsPositive() {
		return errNotPositive
	}
	return utils.FitNumeric(d)
})

type CreateRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	PointsPerKg decimal.Decimal `json:"pointsPerKg"`
	Unit        string          `json:"unit,omitempty"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.PointsPerKg, positive),
		validation.Field(&r.Unit, validation.Length(0, 20)),
	)
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	PointsPerKg *decimal.Decimal `json:"pointsPerKg,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.PointsPerKg, positive),
		validation.Field(&r.Unit, validation.NilOrNotEmpty, validation.Length(1, 20)),
	)
}

// Apply copies the non-nil fields onto c.
func (r UpdateRequest) Apply(c *WasteCategory) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = r.Description
	}
	if r.PointsPerKg != nil {
		c.PointsPerKg = *r.PointsPerKg
	}
	if r.Unit != nil {
		c.Unit = *r.Unit
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}
