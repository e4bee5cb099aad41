package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/domains/ledger/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/logger"
)

// ================================================
// LEDGER RECONCILE JOB HANDLER
// ================================================

type ReconcileHandler struct {
	ledgerService service.Service
}

func NewReconcileHandler(ledgerService service.Service) *ReconcileHandler {
	return &ReconcileHandler{ledgerService: ledgerService}
}

func (h *ReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ReconcilePayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		// malformed payload will never succeed; skip retries
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	var userID *uuid.UUID
	if payload.UserID != "" {
		id, err := uuid.Parse(payload.UserID)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", payload.UserID, asynq.SkipRetry)
		}
		userID = &id
	}

	logger.Info("Starting LedgerReconcile job", map[string]interface{}{
		"user_id":      payload.UserID,
		"requested_by": payload.RequestedBy,
	})

	report, err := h.ledgerService.Reconcile(ctx, userID)
	if err != nil {
		return fmt.Errorf("reconcile ledger: %w", err)
	}

	if report.Consistent() {
		logger.Info("Completed LedgerReconcile job, ledger consistent", nil)
		return nil
	}

	logger.Warn("Completed LedgerReconcile job with mismatches", map[string]interface{}{
		"mismatch_count": len(report.Mismatches),
		"requested_by":   payload.RequestedBy,
	})
	return nil
}
