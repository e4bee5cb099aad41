// Package addresstest provides an in-memory address Repository.
package addresstest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/address"
)

type Repository struct {
	mu    sync.Mutex
	items map[uuid.UUID]address.Address
	inUse map[uuid.UUID]bool
}

var _ address.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		items: make(map[uuid.UUID]address.Address),
		inUse: make(map[uuid.UUID]bool),
	}
}

// Put stores a directly, bypassing the primary rules.
func (r *Repository) Put(a address.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = a
}

// MarkInUse makes DeleteWithTx fail as if a donation request referenced id.
func (r *Repository) MarkInUse(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inUse[id] = true
}

// Primaries returns the ids of the user's primary addresses.
func (r *Repository) Primaries(userID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []uuid.UUID
	for id, a := range r.items {
		if a.UserID == userID && a.IsPrimary {
			out = append(out, id)
		}
	}
	return out
}

func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[uuid.UUID]address.Address, len(r.items))
	for k, v := range r.items {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items = saved
	}
}

func (r *Repository) CreateWithTx(_ context.Context, _ pgx.Tx, a *address.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = *a
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*address.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, address.ErrAddressNotFound
	}
	return &a, nil
}

func (r *Repository) ListByUser(_ context.Context, userID uuid.UUID) ([]address.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]address.Address, 0)
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repository) CountByUserWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.items {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) Update(_ context.Context, a *address.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[a.ID]
	if !ok || cur.UserID != a.UserID {
		return address.ErrAddressNotFound
	}
	a.IsPrimary = cur.IsPrimary
	r.items[a.ID] = *a
	return nil
}

func (r *Repository) DeleteWithTx(_ context.Context, _ pgx.Tx, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok || a.UserID != userID {
		return address.ErrAddressNotFound
	}
	if r.inUse[id] {
		return address.ErrAddressInUse
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) ClearPrimaryWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.items {
		if a.UserID == userID && a.IsPrimary {
			a.IsPrimary = false
			r.items[id] = a
		}
	}
	return nil
}

func (r *Repository) SetPrimaryWithTx(_ context.Context, _ pgx.Tx, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok || a.UserID != userID {
		return address.ErrAddressNotFound
	}
	a.IsPrimary = true
	r.items[id] = a
	return nil
}

func (r *Repository) PromoteNewestWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var newest *address.Address
	for _, a := range r.items {
		if a.UserID != userID {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			a := a
			newest = &a
		}
	}
	if newest != nil {
		newest.IsPrimary = true
		r.items[newest.ID] = *newest
	}
	return nil
}
