package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/address"
	"recycle-rewards-backend/internal/domains/address/addresstest"
	"recycle-rewards-backend/pkg/database/txtest"
)

func newTestService(t *testing.T) (*addressService, *addresstest.Repository) {
	t.Helper()
	repo := addresstest.NewRepository()
	svc := NewAddressService(repo, txtest.New(repo)).(*addressService)

	// Strictly increasing clock so "newest" is deterministic.
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func validRequest() address.CreateRequest {
	return address.CreateRequest{Street: "12 Le Loi", Ward: "Ben Nghe", District: "1", City: "Ho Chi Minh"}
}

func TestFirstAddressBecomesPrimary(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	second, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	req := validRequest()
	req.IsPrimary = true
	third, err := svc.Create(ctx, userID, req)
	require.NoError(t, err)
	assert.True(t, third.IsPrimary)
	assert.Equal(t, []uuid.UUID{third.ID}, repo.Primaries(userID))

	items, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, third.ID, items[0].ID)
}

func TestCoordinatesMustComeInPairs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	lat := 10.77

	req := validRequest()
	req.Latitude = &lat
	_, err := svc.Create(ctx, uuid.New(), req)
	assert.Error(t, err)

	bad := 200.0
	req.Longitude = &bad
	_, err = svc.Create(ctx, uuid.New(), req)
	assert.Error(t, err)

	lng := 106.7
	req.Longitude = &lng
	a, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)
	p, ok := a.Point()
	assert.True(t, ok)
	assert.Equal(t, 106.7, p.Lng)
}

func TestForeignAddressIsForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	a, err := svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, other, a.ID)
	assert.True(t, errors.Is(err, address.ErrAddressForbidden))

	street := "99 Hai Ba Trung"
	_, err = svc.Update(ctx, other, a.ID, address.UpdateRequest{Street: &street})
	assert.True(t, errors.Is(err, address.ErrAddressForbidden))

	err = svc.Delete(ctx, other, a.ID)
	assert.True(t, errors.Is(err, address.ErrAddressForbidden))

	_, err = svc.GetOwned(ctx, owner, uuid.New())
	assert.True(t, errors.Is(err, address.ErrAddressNotFound))
}

func TestUpdateKeepsPrimaryFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	a, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)

	city := "Da Nang"
	updated, err := svc.Update(ctx, userID, a.ID, address.UpdateRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Da Nang", updated.City)
	assert.Equal(t, "12 Le Loi", updated.Street)
	assert.True(t, updated.IsPrimary)
}

func TestSetPrimarySwitches(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)

	got, err := svc.SetPrimary(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)
	assert.Equal(t, []uuid.UUID{second.ID}, repo.Primaries(userID))

	reloaded, err := svc.GetOwned(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPrimary)
}

func TestDeletePrimaryPromotesNewest(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	third, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, first.ID))
	assert.Equal(t, []uuid.UUID{third.ID}, repo.Primaries(userID))
}

func TestDeleteReferencedAddressConflicts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	a, err := svc.Create(ctx, userID, validRequest())
	require.NoError(t, err)
	repo.MarkInUse(a.ID)

	err = svc.Delete(ctx, userID, a.ID)
	assert.True(t, errors.Is(err, address.ErrAddressInUse))

	still, err := svc.GetOwned(ctx, userID, a.ID)
	require.NoError(t, err)
	assert.True(t, still.IsPrimary)
}
