package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ================================================
// STATUS
// ================================================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the whole lifecycle. COMPLETED and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from -> to is an allowed lifecycle step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ================================================
// ENTITIES
// ================================================

// DonationRequest is a donor's pickup request. Category and address
// fields are joined in for reads.
type DonationRequest struct {
	ID              uuid.UUID        `json:"id"`
	DonorID         uuid.UUID        `json:"donorId"`
	WasteCategoryID uuid.UUID        `json:"wasteCategoryId"`
	AddressID       uuid.UUID        `json:"addressId"`
	EstimatedWeight decimal.Decimal  `json:"estimatedWeight"`
	ActualWeight    *decimal.Decimal `json:"actualWeight,omitempty"`
	Status          Status           `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
	ImageURLs       []string         `json:"imageUrls"`
	CancelReason    *string          `json:"cancelReason,omitempty"`
	CancelledBy     *uuid.UUID       `json:"cancelledBy,omitempty"`
	CancelledAt     *time.Time       `json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	CategoryName string          `json:"categoryName,omitempty"`
	PointsPerKg  decimal.Decimal `json:"pointsPerKg"`
	DonorName    string          `json:"donorName,omitempty"`
	Address      *AddressView    `json:"address,omitempty"`
	Collection   *Collection     `json:"collection,omitempty"`
}

// AddressView is the pickup location embedded in a request.
type AddressView struct {
	Street    string   `json:"street"`
	Ward      string   `json:"ward"`
	District  string   `json:"district"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Collection is the 1:1 pickup record created on accept.
type Collection struct {
	ID                uuid.UUID        `json:"id"`
	DonationRequestID uuid.UUID        `json:"donationRequestId"`
	CollectorID       uuid.UUID        `json:"collectorId"`
	CollectorName     string           `json:"collectorName,omitempty"`
	VerificationCode  string           `json:"verificationCode,omitempty"`
	ActualWeight      *decimal.Decimal `json:"actualWeight,omitempty"`
	PointsAwarded     *int             `json:"pointsAwarded,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
	ImageURLs         []string         `json:"imageUrls"`
	CollectedAt       *time.Time       `json:"collectedAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// IsAssignedTo reports whether collectorID accepted the request.
func (r *DonationRequest) IsAssignedTo(collectorID uuid.UUID) bool {
	return r.Collection != nil && r.Collection.CollectorID == collectorID
}

// WithoutCode returns a copy safe to show anyone but the donor.
func (r DonationRequest) WithoutCode() DonationRequest {
	if r.Collection != nil {
		c := *r.Collection
		c.VerificationCode = ""
		r.Collection = &c
	}
	return r
}

// ================================================
// REPORTING
// ================================================

// Cancellation is what a cancel replaced. CollectorID is set when the
// request had been accepted.
type Cancellation struct {
	From        Status
	CollectorID *uuid.UUID
}

// DonorStats is the donor dashboard.
type DonorStats struct {
	ByStatus    map[Status]int64 `json:"byStatus"`
	TotalWeight decimal.Decimal  `json:"totalWeight"`
	TotalPoints int64            `json:"totalPoints"`
}

// CollectorStats is the collector dashboard.
type CollectorStats struct {
	Accepted    int64           `json:"accepted"`
	Completed   int64           `json:"completed"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
}

// ExportRow is one completed collection in the admin report.
type ExportRow struct {
	RequestID       uuid.UUID
	CompletedAt     time.Time
	DonorEmail      string
	CollectorEmail  string
	CategoryName    string
	EstimatedWeight decimal.Decimal
	ActualWeight    decimal.Decimal
	PointsAwarded   int
	City            string
	District        string
}
