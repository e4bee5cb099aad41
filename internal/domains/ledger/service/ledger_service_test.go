package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/ledger/ledgertest"
	"recycle-rewards-backend/internal/domains/ledger/model"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/notificationtest"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/database/txtest"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Queue: shared.QueueDefault, Type: task.Type()}, nil
}

type fixture struct {
	svc      Service
	repo     *ledgertest.Repository
	notifs   *notificationtest.Repository
	tx       *txtest.TxManager
	enqueuer *fakeEnqueuer
}

func newFixture() *fixture {
	repo := ledgertest.NewRepository()
	notifs := notificationtest.NewRepository()
	tx := txtest.New(repo, notifs)
	enq := &fakeEnqueuer{}

	return &fixture{
		svc:      NewLedgerService(repo, tx, notificationService.NewNotificationService(notifs), enq),
		repo:     repo,
		notifs:   notifs,
		tx:       tx,
		enqueuer: enq,
	}
}

func TestCreditAndDebitKeepBalanceEqualToLedgerSum(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.repo.AddUser(user, 0)

	steps := []struct {
		credit bool
		amount int
	}{
		{true, 48}, {true, 20}, {false, 30}, {true, 5}, {false, 43},
	}

	for _, s := range steps {
		req := model.EntryRequest{UserID: user, Amount: s.amount, Description: "step"}
		var err error
		if s.credit {
			_, err = f.svc.Credit(ctx, req)
		} else {
			_, err = f.svc.Debit(ctx, req)
		}
		require.NoError(t, err)
		assert.Equal(t, f.repo.LedgerSum(user), f.repo.Balance(user))
	}

	assert.Equal(t, 0, f.repo.Balance(user))
	entries := f.repo.Entries(user)
	require.Len(t, entries, 5)
	assert.Equal(t, 48, entries[0].BalanceAfter)
	assert.Equal(t, 38, entries[2].BalanceAfter)
}

func TestDebitInsufficientBalance(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	f.repo.AddUser(user, 100)

	_, err := f.svc.Debit(context.Background(), model.EntryRequest{UserID: user, Amount: 150, Description: "too much"})

	assert.True(t, errors.Is(err, model.ErrInsufficientBalance))
	assert.Equal(t, 100, f.repo.Balance(user))
	assert.Len(t, f.repo.Entries(user), 1)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestEntryValidation(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	f.repo.AddUser(user, 10)

	_, err := f.svc.Credit(context.Background(), model.EntryRequest{UserID: user, Amount: 0})
	assert.True(t, errors.Is(err, model.ErrInvalidAmount))

	_, err = f.svc.Debit(context.Background(), model.EntryRequest{UserID: user, Amount: -5})
	assert.True(t, errors.Is(err, model.ErrInvalidAmount))

	_, err = f.svc.Credit(context.Background(), model.EntryRequest{UserID: uuid.New(), Amount: 5})
	assert.True(t, errors.Is(err, model.ErrUserNotFound))
}

func TestAdjustCreditNotifiesUser(t *testing.T) {
	f := newFixture()
	admin, user := uuid.New(), uuid.New()
	f.repo.AddUser(user, 0)

	entry, err := f.svc.Adjust(context.Background(), admin, user, model.AdjustRequest{
		Type:        model.TypeEarn,
		Amount:      25,
		Description: "missed pickup bonus",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, entry.BalanceAfter)

	notifs := f.notifs.ForUser(user)
	require.Len(t, notifs, 1)
	assert.Equal(t, notificationModel.TypePointsEarned, notifs[0].Type)
	assert.Equal(t, entry.ID, *notifs[0].RelatedID)
}

func TestAdjustDebitRejectedLeavesNoTrace(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	f.repo.AddUser(user, 10)

	_, err := f.svc.Adjust(context.Background(), uuid.New(), user, model.AdjustRequest{
		Type:        model.TypeRedeem,
		Amount:      11,
		Description: "correction",
	})
	assert.True(t, errors.Is(err, model.ErrInsufficientBalance))
	assert.Equal(t, 10, f.repo.Balance(user))
	assert.Empty(t, f.notifs.ForUser(user))
}

func TestAdjustValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Adjust(context.Background(), uuid.New(), uuid.New(), model.AdjustRequest{Type: "GIFT", Amount: 1, Description: "abc"})
	assert.Error(t, err)
	assert.Zero(t, f.tx.Commits+f.tx.Rollbacks)
}

func TestListMyTransactions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	f.repo.AddUser(user, 50)

	_, err := f.svc.Debit(ctx, model.EntryRequest{UserID: user, Amount: 20, Description: "reward"})
	require.NoError(t, err)

	all, err := f.svc.ListMyTransactions(ctx, user, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 30, all.Balance)

	redeem := model.TypeRedeem
	only, err := f.svc.ListMyTransactions(ctx, user, &redeem, 1, 10)
	require.NoError(t, err)
	require.Len(t, only.Transactions, 1)
	assert.Equal(t, 20, only.Transactions[0].Amount)

	bad := model.TransactionType("BONUS")
	_, err = f.svc.ListMyTransactions(ctx, user, &bad, 1, 10)
	assert.True(t, errors.Is(err, model.ErrInvalidType))
}

func TestReconcileReportsDrift(t *testing.T) {
	f := newFixture()
	ok, drifted := uuid.New(), uuid.New()
	f.repo.AddUser(ok, 40)
	f.repo.AddUser(drifted, 40)
	f.repo.ForceBalance(drifted, 55)

	report, err := f.svc.Reconcile(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, drifted, report.Mismatches[0].UserID)
	assert.Equal(t, 15, report.Mismatches[0].Drift())

	scoped, err := f.svc.Reconcile(context.Background(), &ok)
	require.NoError(t, err)
	assert.True(t, scoped.Consistent())
	assert.NotNil(t, scoped.Mismatches)
}

func TestEnqueueReconcile(t *testing.T) {
	f := newFixture()
	admin, user := uuid.New(), uuid.New()

	resp, err := f.svc.EnqueueReconcile(context.Background(), admin, &user)
	require.NoError(t, err)
	assert.Equal(t, "task-1", resp.TaskID)

	require.Len(t, f.enqueuer.tasks, 1)
	task := f.enqueuer.tasks[0]
	assert.Equal(t, shared.TypeLedgerReconcile, task.Type())

	var payload shared.ReconcilePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, user.String(), payload.UserID)
	assert.Equal(t, admin.String(), payload.RequestedBy)

	f.enqueuer.err = errors.New("redis down")
	_, err = f.svc.EnqueueReconcile(context.Background(), admin, nil)
	assert.Error(t, err)
}
