package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/ledger/ledgertest"
	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	ledgerService "recycle-rewards-backend/internal/domains/ledger/service"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/notificationtest"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/domains/reward/rewardtest"
	"recycle-rewards-backend/pkg/database/txtest"
)

type fixture struct {
	svc     Service
	rewards *rewardtest.Repository
	ledger  *ledgertest.Repository
	notifs  *notificationtest.Repository
	tx      *txtest.TxManager
	points  ledgerService.Service
}

func newFixture() *fixture {
	rewards := rewardtest.NewRepository()
	ledgerRepo := ledgertest.NewRepository()
	notifs := notificationtest.NewRepository()
	tx := txtest.New(rewards, ledgerRepo, notifs)
	notifier := notificationService.NewNotificationService(notifs)
	points := ledgerService.NewLedgerService(ledgerRepo, tx, notifier, nil)

	return &fixture{
		svc:     NewRewardService(rewards, tx, points, notifier),
		rewards: rewards,
		ledger:  ledgerRepo,
		notifs:  notifs,
		tx:      tx,
		points:  points,
	}
}

func TestRedeemSpendsCostAndOneUnit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.ledger.AddUser(user, 500)
	voucher := f.rewards.Seed("Coffee voucher", 150, 3)

	resp, err := f.svc.Redeem(ctx, user, voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, 350, resp.Balance)
	assert.Equal(t, 2, resp.RemainingStock)
	assert.Equal(t, 150, resp.Redemption.PointsSpent)

	assert.Equal(t, 350, f.ledger.Balance(user))
	assert.Equal(t, 350, f.ledger.LedgerSum(user))
	assert.Equal(t, 2, f.rewards.Stock(voucher.ID))
	assert.Equal(t, 1, f.rewards.Invalidations)

	entries := f.ledger.Entries(user)
	var redeem *ledgerModel.Transaction
	for i := range entries {
		if entries[i].Type == ledgerModel.TypeRedeem {
			redeem = &entries[i]
		}
	}
	require.NotNil(t, redeem)
	assert.Equal(t, redeem.ID, resp.Redemption.TransactionID)

	notes := f.notifs.ForUser(user)
	require.Len(t, notes, 1)
	assert.Equal(t, notificationModel.TypeRewardRedeemed, notes[0].Type)

	history, err := f.svc.MyRedemptions(ctx, user, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}

func TestRedeemInsufficientBalanceKeepsEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.ledger.AddUser(user, 100)
	voucher := f.rewards.Seed("Tote bag", 150, 5)

	_, err := f.svc.Redeem(ctx, user, voucher.ID)
	assert.True(t, errors.Is(err, ledgerModel.ErrInsufficientBalance))

	assert.Equal(t, 100, f.ledger.Balance(user))
	assert.Equal(t, 5, f.rewards.Stock(voucher.ID))
	assert.Empty(t, f.rewards.Redemptions())
}

func TestRedeemRejectsUnavailableRewards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.ledger.AddUser(user, 1000)

	empty := f.rewards.Seed("Sold out", 10, 0)
	_, err := f.svc.Redeem(ctx, user, empty.ID)
	assert.True(t, errors.Is(err, model.ErrOutOfStock))

	retired := f.rewards.Seed("Retired", 10, 5)
	require.NoError(t, f.svc.Deactivate(ctx, retired.ID))
	_, err = f.svc.Redeem(ctx, user, retired.ID)
	assert.True(t, errors.Is(err, model.ErrRewardInactive))

	_, err = f.svc.Redeem(ctx, user, uuid.New())
	assert.True(t, errors.Is(err, model.ErrRewardNotFound))

	assert.Equal(t, 1000, f.ledger.Balance(user))
}

// stalePoints reports a generous balance so the debit guard is what fails.
type stalePoints struct {
	ledgerService.Service
}

func (stalePoints) GetBalance(context.Context, uuid.UUID) (int, error) {
	return 1_000_000, nil
}

func TestFailedDebitRestoresStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.ledger.AddUser(user, 40)
	voucher := f.rewards.Seed("Plant", 50, 2)

	svc := NewRewardService(f.rewards, f.tx, stalePoints{f.points}, notificationService.NewNotificationService(f.notifs))

	_, err := svc.Redeem(ctx, user, voucher.ID)
	assert.True(t, errors.Is(err, ledgerModel.ErrInsufficientBalance))
	assert.Equal(t, 1, f.tx.Rollbacks)

	assert.Equal(t, 2, f.rewards.Stock(voucher.ID))
	assert.Equal(t, 40, f.ledger.Balance(user))
	assert.Empty(t, f.rewards.Redemptions())
	assert.Empty(t, f.notifs.ForUser(user))
}

func TestConcurrentRedeemOfLastUnit(t *testing.T) {
	f := newFixture()
	last := f.rewards.Seed("Last one", 10, 1)

	const racers = 6
	users := make([]uuid.UUID, racers)
	for i := range users {
		users[i] = uuid.New()
		f.ledger.AddUser(users[i], 100)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		wins, outs int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Redeem(context.Background(), u, last.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, model.ErrOutOfStock):
				outs++
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, outs)
	assert.Equal(t, 0, f.rewards.Stock(last.ID))

	spent := 0
	for _, u := range users {
		spent += 100 - f.ledger.Balance(u)
	}
	assert.Equal(t, 10, spent)
}

func TestCatalogAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rw, err := f.svc.Create(ctx, model.CreateRewardRequest{Name: " Bamboo straw ", PointsCost: 30, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, "Bamboo straw", rw.Name)
	assert.True(t, rw.IsActive)

	_, err = f.svc.Create(ctx, model.CreateRewardRequest{Name: "Free", PointsCost: 0})
	assert.Error(t, err)

	stock := 0
	updated, err := f.svc.Update(ctx, rw.ID, model.UpdateRewardRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	require.NoError(t, f.svc.Deactivate(ctx, rw.ID))
	public, err := f.svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
