package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/location"
)

const maxImages = 10

// positiveWeight accepts weights above zero that a NUMERIC(10, 2)
// column stores without rounding.
var positiveWeight = validation.By(func(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return ErrInvalidWeight
	}
	if err := utils.FitNumeric(d); err != nil {
		return ErrInvalidWeight.WithMessage("Weight %s", err.Error())
	}
	return nil
})

var imageURLRules = []validation.Rule{
	validation.Length(0, maxImages),
	validation.Each(validation.Required, is.URL),
}

// ================================================
// REQUESTS
// ================================================

type CreateRequest struct {
	WasteCategoryID uuid.UUID       `json:"wasteCategoryId"`
	AddressID       uuid.UUID       `json:"addressId"`
	EstimatedWeight decimal.Decimal `json:"estimatedWeight"`
	Notes           *string         `json:"notes,omitempty"`
	ImageURLs       []string        `json:"imageUrls,omitempty"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WasteCategoryID, validation.Required),
		validation.Field(&r.AddressID, validation.Required),
		validation.Field(&r.EstimatedWeight, positiveWeight),
		validation.Field(&r.Notes, validation.NilOrNotEmpty, validation.Length(0, 1000)),
		validation.Field(&r.ImageURLs, imageURLRules...),
	)
}

type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r CancelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

type CompleteRequest struct {
	ActualWeight     decimal.Decimal `json:"actualWeight"`
	VerificationCode string          `json:"verificationCode"`
	Notes            *string         `json:"notes,omitempty"`
	ImageURLs        []string        `json:"imageUrls,omitempty"`
}

func (r CompleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ActualWeight, positiveWeight),
		validation.Field(&r.VerificationCode, validation.Required, is.Digit, validation.Length(4, 10)),
		validation.Field(&r.Notes, validation.Length(0, 1000)),
		validation.Field(&r.ImageURLs, imageURLRules...),
	)
}

// ================================================
// QUERIES
// ================================================

// Near restricts results to requests whose address lies within RadiusKm.
type Near struct {
	Center   location.Point
	RadiusKm float64
}

// ListFilter is shared by the browse feed, my-requests and my-collections.
type ListFilter struct {
	Status      *Status
	CategoryID  *uuid.UUID
	DonorID     *uuid.UUID
	CollectorID *uuid.UUID
	Near        *Near
	Limit       int
	Offset      int
}

type ListResponse struct {
	Requests []DonationRequest `json:"requests"`
	Total    int64             `json:"total"`
}

// ListQuery is the parsed query string of GET /donation-requests.
type ListQuery struct {
	Status     *Status
	CategoryID *uuid.UUID
	Lat        *float64
	Lng        *float64
	RadiusKm   *float64
	Page       int
	Limit      int
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Status, validation.By(func(interface{}) error {
			if q.Status != nil && !q.Status.IsValid() {
				return ErrInvalidStatus
			}
			return nil
		})),
		validation.Field(&q.Lat, validation.Min(-90.0), validation.Max(90.0),
			validation.When(q.Lng != nil || q.RadiusKm != nil, validation.NotNil)),
		validation.Field(&q.Lng, validation.Min(-180.0), validation.Max(180.0),
			validation.When(q.Lat != nil || q.RadiusKm != nil, validation.NotNil)),
		validation.Field(&q.RadiusKm, validation.Min(0.1), validation.Max(500.0),
			validation.When(q.Lat != nil || q.Lng != nil, validation.NotNil)),
	)
}

// Near converts the geo params, nil when absent.
func (q ListQuery) Near() *Near {
	if q.Lat == nil || q.Lng == nil || q.RadiusKm == nil {
		return nil
	}
	return &Near{Center: location.Point{Lat: *q.Lat, Lng: *q.Lng}, RadiusKm: *q.RadiusKm}
}

// StatsResponse carries the dashboard for the caller's role.
type StatsResponse struct {
	Role      string           `json:"role"`
	Donor     *DonorStats      `json:"donor,omitempty"`
	Collector *CollectorStats  `json:"collector,omitempty"`
	ByStatus  map[Status]int64 `json:"byStatus,omitempty"`
}

// ExportFilter bounds the report by completion time. Zero values are open ends.
type ExportFilter struct {
	From time.Time
	To   time.Time
}

func (f ExportFilter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return validation.Errors{"to": validation.NewError("validation_range", "must not be before from")}
	}
	return nil
}
