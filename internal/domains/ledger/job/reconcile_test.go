package job

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/ledger/ledgertest"
	"recycle-rewards-backend/internal/domains/ledger/service"
	"recycle-rewards-backend/internal/domains/notification/notificationtest"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/database/txtest"
)

func newHandler(repo *ledgertest.Repository) *ReconcileHandler {
	notifs := notificationtest.NewRepository()
	svc := service.NewLedgerService(repo, txtest.New(repo, notifs), notificationService.NewNotificationService(notifs), nil)
	return NewReconcileHandler(svc)
}

func TestReconcileHandlerRunsForScopedUser(t *testing.T) {
	repo := ledgertest.NewRepository()
	user := uuid.New()
	repo.AddUser(user, 30)
	repo.ForceBalance(user, 31)

	task, err := utils.MarshalTask(shared.TypeLedgerReconcile, shared.ReconcilePayload{UserID: user.String()})
	require.NoError(t, err)

	assert.NoError(t, newHandler(repo).ProcessTask(context.Background(), task))
}

func TestReconcileHandlerEmptyPayloadChecksEveryone(t *testing.T) {
	repo := ledgertest.NewRepository()
	repo.AddUser(uuid.New(), 10)

	task := asynq.NewTask(shared.TypeLedgerReconcile, nil)
	assert.NoError(t, newHandler(repo).ProcessTask(context.Background(), task))
}

func TestReconcileHandlerBadPayloadSkipsRetry(t *testing.T) {
	task, err := utils.MarshalTask(shared.TypeLedgerReconcile, shared.ReconcilePayload{UserID: "not-a-uuid"})
	require.NoError(t, err)

	err = newHandler(ledgertest.NewRepository()).ProcessTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	garbage := asynq.NewTask(shared.TypeLedgerReconcile, []byte("{"))
	err = newHandler(ledgertest.NewRepository()).ProcessTask(context.Background(), garbage)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
