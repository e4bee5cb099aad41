package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type CreateRewardRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PointsCost  int     `json:"pointsCost"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

func (r CreateRewardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.PointsCost, validation.Required, validation.Min(1)),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.ImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

// UpdateRewardRequest is a partial update; nil fields are left untouched.
type UpdateRewardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PointsCost  *int    `json:"pointsCost,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func (r UpdateRewardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.PointsCost, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.ImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

// Apply copies the non-nil fields onto rw.
func (r UpdateRewardRequest) Apply(rw *Reward) {
	if r.Name != nil {
		rw.Name = *r.Name
	}
	if r.Description != nil {
		rw.Description = r.Description
	}
	if r.PointsCost != nil {
		rw.PointsCost = *r.PointsCost
	}
	if r.Stock != nil {
		rw.Stock = *r.Stock
	}
	if r.ImageURL != nil {
		rw.ImageURL = r.ImageURL
	}
	if r.IsActive != nil {
		rw.IsActive = *r.IsActive
	}
}

// RedeemResponse is returned after a successful redemption.
type RedeemResponse struct {
	Redemption     Redemption `json:"redemption"`
	Balance        int        `json:"balance"`
	RemainingStock int        `json:"remainingStock"`
}

type RedemptionListResponse struct {
	Redemptions []Redemption `json:"redemptions"`
	Total       int64        `json:"total"`
}

// RedemptionFilter pages one user's history.
type RedemptionFilter struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}
