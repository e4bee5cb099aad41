package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/category"
	"recycle-rewards-backend/internal/domains/category/categorytest"
)

func TestCreateAndList(t *testing.T) {
	repo := categorytest.NewRepository()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, category.CreateRequest{Name: " Cardboard ", PointsPerKg: decimal.NewFromInt(6)})
	require.NoError(t, err)
	assert.Equal(t, "Cardboard", created.Name)
	assert.Equal(t, category.DefaultUnit, created.Unit)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, category.CreateRequest{Name: "cardboard", PointsPerKg: decimal.NewFromInt(3)})
	assert.True(t, errors.Is(err, category.ErrDuplicateName))

	_, err = svc.Create(ctx, category.CreateRequest{Name: "Glass", PointsPerKg: decimal.Zero})
	assert.Error(t, err)

	items, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDeactivateHidesFromPublicList(t *testing.T) {
	repo := categorytest.NewRepository()
	svc := NewCategoryService(repo)
	ctx := context.Background()
	plastic := repo.Seed("Plastic", 10)
	repo.Seed("Paper", 5)

	require.NoError(t, svc.Deactivate(ctx, plastic.ID))

	public, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.GetActive(ctx, plastic.ID)
	assert.True(t, errors.Is(err, category.ErrCategoryInactive))

	got, err := svc.GetByID(ctx, plastic.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUpdatePartial(t *testing.T) {
	repo := categorytest.NewRepository()
	svc := NewCategoryService(repo)
	ctx := context.Background()
	metal := repo.Seed("Metal", 15)
	repo.Seed("Glass", 4)

	rate := decimal.RequireFromString("17.5")
	updated, err := svc.Update(ctx, metal.ID, category.UpdateRequest{PointsPerKg: &rate})
	require.NoError(t, err)
	assert.Equal(t, "Metal", updated.Name)
	assert.True(t, rate.Equal(updated.PointsPerKg))

	clash := "Glass"
	_, err = svc.Update(ctx, metal.ID, category.UpdateRequest{Name: &clash})
	assert.True(t, errors.Is(err, category.ErrDuplicateName))

	_, err = svc.Update(ctx, metal.ID, category.UpdateRequest{})
	assert.NoError(t, err)
}
