package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/domains/ledger/repository"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/logger"
)

type ledgerService struct {
	repo      repository.Repository
	txManager database.TxManager
	notifier  notificationService.NotificationService
	enqueuer  TaskEnqueuer
	now       func() time.Time
}

func NewLedgerService(
	repo repository.Repository,
	txManager database.TxManager,
	notifier notificationService.NotificationService,
	enqueuer TaskEnqueuer,
) Service {
	return &ledgerService{
		repo:      repo,
		txManager: txManager,
		notifier:  notifier,
		enqueuer:  enqueuer,
		now:       time.Now,
	}
}

// =====================================================
// WRITES
// =====================================================

// CreditWithTx adds points and appends the EARN entry in tx.
func (s *ledgerService) CreditWithTx(ctx context.Context, tx pgx.Tx, req model.EntryRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	balance, err := s.repo.IncrementBalanceWithTx(ctx, tx, req.UserID, req.Amount)
	if err != nil {
		return nil, err
	}

	return s.append(ctx, tx, model.TypeEarn, req, balance)
}

// DebitWithTx removes points and appends the REDEEM entry in tx.
// The balance never goes negative; the guard lives in the UPDATE.
func (s *ledgerService) DebitWithTx(ctx context.Context, tx pgx.Tx, req model.EntryRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	balance, err := s.repo.DecrementBalanceWithTx(ctx, tx, req.UserID, req.Amount)
	if err != nil {
		return nil, err
	}

	return s.append(ctx, tx, model.TypeRedeem, req, balance)
}

func (s *ledgerService) append(ctx context.Context, tx pgx.Tx, txType model.TransactionType, req model.EntryRequest, balance int) (*model.Transaction, error) {
	entry := &model.Transaction{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Type:         txType,
		Amount:       req.Amount,
		BalanceAfter: balance,
		Description:  req.Description,
		RelatedID:    req.RelatedID,
		CreatedAt:    s.now(),
	}
	if err := s.repo.InsertWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) Credit(ctx context.Context, req model.EntryRequest) (*model.Transaction, error) {
	return database.WithTransactionResult(ctx, s.txManager, func(tx pgx.Tx) (*model.Transaction, error) {
		return s.CreditWithTx(ctx, tx, req)
	})
}

func (s *ledgerService) Debit(ctx context.Context, req model.EntryRequest) (*model.Transaction, error) {
	return database.WithTransactionResult(ctx, s.txManager, func(tx pgx.Tx) (*model.Transaction, error) {
		return s.DebitWithTx(ctx, tx, req)
	})
}

// Adjust applies an admin correction and tells the user about credits.
func (s *ledgerService) Adjust(ctx context.Context, adminID, userID uuid.UUID, req model.AdjustRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entryReq := model.EntryRequest{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	entry, err := database.WithTransactionResult(ctx, s.txManager, func(tx pgx.Tx) (*model.Transaction, error) {
		if req.Type == model.TypeRedeem {
			return s.DebitWithTx(ctx, tx, entryReq)
		}

		entry, err := s.CreditWithTx(ctx, tx, entryReq)
		if err != nil {
			return nil, err
		}
		n := notificationModel.New(userID, notificationModel.TypePointsEarned,
			"Points added",
			fmt.Sprintf("%d points were added to your balance: %s", req.Amount, req.Description),
			&entry.ID)
		if err := s.notifier.NotifyWithTx(ctx, tx, n); err != nil {
			return nil, err
		}
		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Admin adjusted points", map[string]interface{}{
		"admin_id":      adminID,
		"user_id":       userID,
		"type":          entry.Type,
		"amount":        entry.Amount,
		"balance_after": entry.BalanceAfter,
	})
	return entry, nil
}

// =====================================================
// READS
// =====================================================

func (s *ledgerService) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

func (s *ledgerService) ListMyTransactions(ctx context.Context, userID uuid.UUID, txType *model.TransactionType, page, limit int) (*model.HistoryResponse, error) {
	if txType != nil && !txType.IsValid() {
		return nil, model.ErrInvalidType
	}

	p := utils.Pagination{Page: page, Limit: limit}.Normalize()
	items, total, err := s.repo.ListByUser(ctx, model.ListFilter{
		UserID: userID,
		Type:   txType,
		Limit:  p.Limit,
		Offset: p.Offset(),
	})
	if err != nil {
		return nil, err
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.HistoryResponse{
		Transactions: items,
		Balance:      balance,
		Total:        total,
	}, nil
}

func (s *ledgerService) Totals(ctx context.Context) (*model.Totals, error) {
	return s.repo.Totals(ctx)
}

// =====================================================
// RECONCILIATION
// =====================================================

func (s *ledgerService) Reconcile(ctx context.Context, userID *uuid.UUID) (*model.ReconcileReport, error) {
	mismatches, err := s.repo.FindMismatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mismatches == nil {
		mismatches = []model.BalanceMismatch{}
	}

	for _, m := range mismatches {
		logger.Warn("Ledger mismatch", map[string]interface{}{
			"user_id":       m.UserID,
			"email":         m.Email,
			"cached_points": m.CachedPoints,
			"ledger_points": m.LedgerPoints,
			"drift":         m.Drift(),
		})
	}

	return &model.ReconcileReport{
		CheckedAt:  s.now(),
		Mismatches: mismatches,
	}, nil
}

func (s *ledgerService) EnqueueReconcile(ctx context.Context, requestedBy uuid.UUID, userID *uuid.UUID) (*model.EnqueueResponse, error) {
	payload := shared.ReconcilePayload{RequestedBy: requestedBy.String()}
	if userID != nil {
		payload.UserID = userID.String()
	}

	task, err := utils.MarshalTask(shared.TypeLedgerReconcile, payload)
	if err != nil {
		return nil, err
	}

	info, err := s.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue reconcile: %w", err)
	}

	logger.Info("Reconcile task enqueued", map[string]interface{}{
		"task_id":      info.ID,
		"requested_by": requestedBy,
	})
	return &model.EnqueueResponse{TaskID: info.ID, Queue: info.Queue}, nil
}
