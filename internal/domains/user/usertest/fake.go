// Package usertest provides an in-memory user.Repository.
package usertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/shared"
)

type Repository struct {
	mu            sync.Mutex
	users         map[uuid.UUID]user.User
	Invalidations int
}

var _ user.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{users: make(map[uuid.UUID]user.User)}
}

// Put stores u as-is.
func (r *Repository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// Snapshot implements txtest.Snapshotter.
func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[uuid.UUID]user.User, len(r.users))
	for k, v := range r.users {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.users = saved
	}
}

func (r *Repository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *Repository) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *Repository) UpdateProfile(_ context.Context, id uuid.UUID, fullName, phone *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if phone != nil {
		u.Phone = phone
	}
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *Repository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
		r.users[id] = u
	}
	return nil
}

func (r *Repository) SetActiveWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsActive = isActive
	r.users[id] = u
	return nil
}

func (r *Repository) Invalidate(context.Context, uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invalidations++
}

func (r *Repository) List(_ context.Context, req user.ListUsersRequest) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []user.User
	for _, u := range r.users {
		if req.Role != nil && u.Role != *req.Role {
			continue
		}
		if req.IsActive != nil && u.IsActive != *req.IsActive {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(u.Email+" "+u.FullName), strings.ToLower(req.Search)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

func (r *Repository) CountByRole(_ context.Context) (map[shared.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[shared.Role]int64{}
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}
