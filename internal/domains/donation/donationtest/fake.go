// Package donationtest provides an in-memory donation Repository.
package donationtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/internal/domains/donation/repository"
	"recycle-rewards-backend/pkg/location"
)

type Repository struct {
	mu        sync.Mutex
	requests  map[uuid.UUID]model.DonationRequest
	addresses map[uuid.UUID]model.AddressView
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		requests:  make(map[uuid.UUID]model.DonationRequest),
		addresses: make(map[uuid.UUID]model.AddressView),
	}
}

// SetAddress registers the joined address shown for addressID.
func (r *Repository) SetAddress(addressID uuid.UUID, view model.AddressView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[addressID] = view
}

func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[uuid.UUID]model.DonationRequest, len(r.requests))
	for k, v := range r.requests {
		saved[k] = cloneRequest(v)
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.requests = saved
	}
}

func cloneRequest(d model.DonationRequest) model.DonationRequest {
	if d.Collection != nil {
		c := *d.Collection
		d.Collection = &c
	}
	return d
}

func (r *Repository) view(d model.DonationRequest) model.DonationRequest {
	d = cloneRequest(d)
	if a, ok := r.addresses[d.AddressID]; ok {
		d.Address = &a
	}
	return d
}

func (r *Repository) Create(_ context.Context, d *model.DonationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[d.ID] = cloneRequest(*d)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*model.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	v := r.view(d)
	return &v, nil
}

func (r *Repository) List(_ context.Context, f model.ListFilter) ([]model.DonationRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.DonationRequest
	for _, d := range r.requests {
		v := r.view(d)
		if f.Status != nil && v.Status != *f.Status {
			continue
		}
		if f.CategoryID != nil && v.WasteCategoryID != *f.CategoryID {
			continue
		}
		if f.DonorID != nil && v.DonorID != *f.DonorID {
			continue
		}
		if f.CollectorID != nil && !v.IsAssignedTo(*f.CollectorID) {
			continue
		}
		if f.Near != nil {
			if v.Address == nil || v.Address.Latitude == nil || v.Address.Longitude == nil {
				continue
			}
			p := location.Point{Lat: *v.Address.Latitude, Lng: *v.Address.Longitude}
			if !location.Within(f.Near.Center, p, f.Near.RadiusKm) {
				continue
			}
		}
		matched = append(matched, v)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []model.DonationRequest{}, total, nil
	}
	end := len(matched)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

// transition applies a guarded status change.
func (r *Repository) transition(id uuid.UUID, from, to model.Status, apply func(*model.DonationRequest)) error {
	d, ok := r.requests[id]
	if !ok {
		return model.ErrRequestNotFound
	}
	if d.Status != from || !model.CanTransition(from, to) {
		return model.ErrInvalidTransition
	}
	d.Status = to
	d.UpdatedAt = time.Now()
	if apply != nil {
		apply(&d)
	}
	r.requests[id] = d
	return nil
}

func (r *Repository) AcceptWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(id, model.StatusPending, model.StatusAccepted, nil)
}

func (r *Repository) CancelWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID, by uuid.UUID, reason *string) (*model.Cancellation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	err := r.transition(id, d.Status, model.StatusCancelled, func(d *model.DonationRequest) {
		now := time.Now()
		d.CancelReason = reason
		d.CancelledBy = &by
		d.CancelledAt = &now
	})
	if err != nil {
		return nil, err
	}

	out := &model.Cancellation{From: d.Status}
	if d.Status == model.StatusAccepted && d.Collection != nil {
		collectorID := d.Collection.CollectorID
		out.CollectorID = &collectorID
	}
	return out, nil
}

func (r *Repository) CompleteWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID, actualWeight decimal.Decimal, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(id, model.StatusAccepted, model.StatusCompleted, func(d *model.DonationRequest) {
		d.ActualWeight = &actualWeight
		d.CompletedAt = &at
	})
}

func (r *Repository) CreateCollectionWithTx(_ context.Context, _ pgx.Tx, c *model.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.requests[c.DonationRequestID]
	if !ok {
		return model.ErrRequestNotFound
	}
	if d.Collection != nil {
		return model.ErrInvalidTransition
	}
	cc := *c
	d.Collection = &cc
	r.requests[d.ID] = d
	return nil
}

func (r *Repository) UpdateCollectionWithTx(_ context.Context, _ pgx.Tx, c *model.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.requests[c.DonationRequestID]
	if !ok || d.Collection == nil || d.Collection.ID != c.ID {
		return model.ErrRequestNotFound
	}
	cc := *c
	d.Collection = &cc
	r.requests[d.ID] = d
	return nil
}

func (r *Repository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int64)
	for _, d := range r.requests {
		out[string(d.Status)]++
	}
	return out, nil
}

func (r *Repository) DonorStats(_ context.Context, donorID uuid.UUID) (*model.DonorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.DonorStats{ByStatus: make(map[model.Status]int64), TotalWeight: decimal.Zero}
	for _, d := range r.requests {
		if d.DonorID != donorID {
			continue
		}
		stats.ByStatus[d.Status]++
		if d.Status == model.StatusCompleted && d.ActualWeight != nil {
			stats.TotalWeight = stats.TotalWeight.Add(*d.ActualWeight)
			if d.Collection != nil && d.Collection.PointsAwarded != nil {
				stats.TotalPoints += int64(*d.Collection.PointsAwarded)
			}
		}
	}
	return stats, nil
}

func (r *Repository) CollectorStats(_ context.Context, collectorID uuid.UUID) (*model.CollectorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.CollectorStats{TotalWeight: decimal.Zero}
	for _, d := range r.requests {
		if !d.IsAssignedTo(collectorID) {
			continue
		}
		switch d.Status {
		case model.StatusAccepted:
			stats.Accepted++
		case model.StatusCompleted:
			stats.Completed++
			if d.Collection.ActualWeight != nil {
				stats.TotalWeight = stats.TotalWeight.Add(*d.Collection.ActualWeight)
			}
		}
	}
	return stats, nil
}

func (r *Repository) ListCompleted(_ context.Context, f model.ExportFilter) ([]model.ExportRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.ExportRow
	for _, d := range r.requests {
		if d.Status != model.StatusCompleted || d.CompletedAt == nil {
			continue
		}
		if !f.From.IsZero() && d.CompletedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !d.CompletedAt.Before(f.To) {
			continue
		}
		row := model.ExportRow{
			RequestID:       d.ID,
			CompletedAt:     *d.CompletedAt,
			CategoryName:    d.CategoryName,
			EstimatedWeight: d.EstimatedWeight,
			ActualWeight:    *d.ActualWeight,
		}
		if d.Collection != nil && d.Collection.PointsAwarded != nil {
			row.PointsAwarded = *d.Collection.PointsAwarded
		}
		if a, ok := r.addresses[d.AddressID]; ok {
			row.City, row.District = a.City, a.District
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}
