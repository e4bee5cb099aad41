package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"recycle-rewards-backend/internal/domains/category"
	"recycle-rewards-backend/pkg/logger"
)

type categoryService struct {
	repo category.CategoryRepository
}

func NewCategoryService(repo category.CategoryRepository) category.CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]category.WasteCategory, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*category.WasteCategory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) GetActive(ctx context.Context, id uuid.UUID) (*category.WasteCategory, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, category.ErrCategoryInactive
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, req category.CreateRequest) (*category.WasteCategory, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUILD ENTITY
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = category.DefaultUnit
	}
	now := time.Now()
	c := &category.WasteCategory{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PointsPerKg: req.PointsPerKg,
		Unit:        unit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 3. PERSIST; duplicate names surface as ErrDuplicateName
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("Waste category created", map[string]interface{}{
		"category_id":   c.ID,
		"name":          c.Name,
		"points_per_kg": c.PointsPerKg.String(),
	})
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req category.UpdateRequest) (*category.WasteCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(c)
	c.Name = strings.TrimSpace(c.Name)
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Deactivate keeps the row so existing donation requests keep their reference.
func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}

	logger.Info("Waste category deactivated", map[string]interface{}{"category_id": id})
	return nil
}
