// Package rewardtest provides an in-memory reward Repository.
package rewardtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/domains/reward/repository"
)

type Repository struct {
	mu          sync.Mutex
	rewards     map[uuid.UUID]model.Reward
	redemptions []model.Redemption

	// Invalidations counts InvalidateList calls.
	Invalidations int
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{rewards: make(map[uuid.UUID]model.Reward)}
}

// Seed adds an active reward.
func (r *Repository) Seed(name string, cost, stock int) model.Reward {
	now := time.Now()
	rw := model.Reward{
		ID:         uuid.New(),
		Name:       name,
		PointsCost: cost,
		Stock:      stock,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewards[rw.ID] = rw
	return rw
}

// Stock returns the current stock of id.
func (r *Repository) Stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rewards[id].Stock
}

// Redemptions returns every stored redemption.
func (r *Repository) Redemptions() []model.Redemption {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Redemption(nil), r.redemptions...)
}

func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rewards := make(map[uuid.UUID]model.Reward, len(r.rewards))
	for k, v := range r.rewards {
		rewards[k] = v
	}
	redemptions := append([]model.Redemption(nil), r.redemptions...)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rewards = rewards
		r.redemptions = redemptions
	}
}

func (r *Repository) InvalidateList(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invalidations++
}

func (r *Repository) Create(_ context.Context, rw *model.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewards[rw.ID] = *rw
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*model.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rewards[id]
	if !ok {
		return nil, model.ErrRewardNotFound
	}
	return &rw, nil
}

func (r *Repository) List(_ context.Context, includeInactive bool) ([]model.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Reward, 0, len(r.rewards))
	for _, rw := range r.rewards {
		if includeInactive || rw.IsActive {
			out = append(out, rw)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsCost != out[j].PointsCost {
			return out[i].PointsCost < out[j].PointsCost
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *Repository) Update(_ context.Context, rw *model.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rewards[rw.ID]; !ok {
		return model.ErrRewardNotFound
	}
	r.rewards[rw.ID] = *rw
	return nil
}

func (r *Repository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rewards[id]
	if !ok {
		return model.ErrRewardNotFound
	}
	rw.IsActive = active
	r.rewards[id] = rw
	return nil
}

func (r *Repository) TakeOneWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rewards[id]
	switch {
	case !ok:
		return 0, 0, model.ErrRewardNotFound
	case !rw.IsActive:
		return 0, 0, model.ErrRewardInactive
	case rw.Stock <= 0:
		return 0, 0, model.ErrOutOfStock
	}
	rw.Stock--
	r.rewards[id] = rw
	return rw.PointsCost, rw.Stock, nil
}

func (r *Repository) CreateRedemptionWithTx(_ context.Context, _ pgx.Tx, rd *model.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redemptions = append(r.redemptions, *rd)
	return nil
}

func (r *Repository) ListRedemptions(_ context.Context, f model.RedemptionFilter) ([]model.Redemption, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []model.Redemption
	for _, rd := range r.redemptions {
		if rd.UserID == f.UserID {
			mine = append(mine, rd)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	total := int64(len(mine))
	if f.Offset >= len(mine) {
		return []model.Redemption{}, total, nil
	}
	end := len(mine)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return mine[f.Offset:end], total, nil
}
