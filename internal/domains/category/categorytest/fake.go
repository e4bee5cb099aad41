// Package categorytest provides an in-memory CategoryRepository.
package categorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/domains/category"
)

type Repository struct {
	mu    sync.Mutex
	items map[uuid.UUID]category.WasteCategory
}

var _ category.CategoryRepository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{items: make(map[uuid.UUID]category.WasteCategory)}
}

// Seed adds an active category with the given rate.
func (r *Repository) Seed(name string, pointsPerKg int64) category.WasteCategory {
	now := time.Now()
	c := category.WasteCategory{
		ID:          uuid.New(),
		Name:        name,
		PointsPerKg: decimal.NewFromInt(pointsPerKg),
		Unit:        category.DefaultUnit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return c
}

func (r *Repository) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.items {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *Repository) Create(_ context.Context, c *category.WasteCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(c.Name, uuid.Nil) {
		return category.ErrDuplicateName
	}
	r.items[c.ID] = *c
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*category.WasteCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *Repository) List(_ context.Context, includeInactive bool) ([]category.WasteCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]category.WasteCategory, 0, len(r.items))
	for _, c := range r.items {
		if includeInactive || c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Repository) Update(_ context.Context, c *category.WasteCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return category.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return category.ErrDuplicateName
	}
	r.items[c.ID] = *c
	return nil
}

func (r *Repository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return category.ErrCategoryNotFound
	}
	c.IsActive = active
	r.items[id] = c
	return nil
}
