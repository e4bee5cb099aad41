package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/ledger/model"
)

// Service is the only writer of users.points.
// The WithTx variants join the caller's transaction; the others open their own.
type Service interface {
	CreditWithTx(ctx context.Context, tx pgx.Tx, req model.EntryRequest) (*model.Transaction, error)
	DebitWithTx(ctx context.Context, tx pgx.Tx, req model.EntryRequest) (*model.Transaction, error)
	Credit(ctx context.Context, req model.EntryRequest) (*model.Transaction, error)
	Debit(ctx context.Context, req model.EntryRequest) (*model.Transaction, error)

	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	ListMyTransactions(ctx context.Context, userID uuid.UUID, txType *model.TransactionType, page, limit int) (*model.HistoryResponse, error)
	Totals(ctx context.Context) (*model.Totals, error)

	// Adjust is the admin manual correction.
	Adjust(ctx context.Context, adminID, userID uuid.UUID, req model.AdjustRequest) (*model.Transaction, error)

	// Reconcile reports users whose points differ from their ledger sum.
	Reconcile(ctx context.Context, userID *uuid.UUID) (*model.ReconcileReport, error)
	EnqueueReconcile(ctx context.Context, requestedBy uuid.UUID, userID *uuid.UUID) (*model.EnqueueResponse, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
