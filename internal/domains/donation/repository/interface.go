package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/domains/donation/model"
)

// Repository persists donation requests and their collections.
//
// Every status change is a guarded UPDATE: it only matches rows still in the
// expected status, so of two racing writers exactly one wins. A lost race
// returns model.ErrInvalidTransition; a missing row model.ErrRequestNotFound.
type Repository interface {
	Create(ctx context.Context, r *model.DonationRequest) error

	// GetByID joins category, address and collection.
	GetByID(ctx context.Context, id uuid.UUID) (*model.DonationRequest, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.DonationRequest, int64, error)

	AcceptWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// CancelWithTx cancels from whichever of PENDING or ACCEPTED the row holds
	// once locked, so an accept racing the cancel does not fail it.
	CancelWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, by uuid.UUID, reason *string) (*model.Cancellation, error)
	CompleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, actualWeight decimal.Decimal, at time.Time) error

	CreateCollectionWithTx(ctx context.Context, tx pgx.Tx, c *model.Collection) error
	UpdateCollectionWithTx(ctx context.Context, tx pgx.Tx, c *model.Collection) error

	CountByStatus(ctx context.Context) (map[string]int64, error)
	DonorStats(ctx context.Context, donorID uuid.UUID) (*model.DonorStats, error)
	CollectorStats(ctx context.Context, collectorID uuid.UUID) (*model.CollectorStats, error)
	ListCompleted(ctx context.Context, filter model.ExportFilter) ([]model.ExportRow, error)
}
