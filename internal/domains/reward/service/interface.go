package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/domains/reward/model"
)

type Service interface {
	List(ctx context.Context, includeInactive bool) ([]model.Reward, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	Create(ctx context.Context, req model.CreateRewardRequest) (*model.Reward, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateRewardRequest) (*model.Reward, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Redeem spends pointsCost for one unit of stock, atomically.
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.RedeemResponse, error)
	MyRedemptions(ctx context.Context, userID uuid.UUID, page, limit int) (*model.RedemptionListResponse, error)
}

// PointsSpender is the part of the ledger service used by redemption.
type PointsSpender interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	DebitWithTx(ctx context.Context, tx pgx.Tx, req ledgerModel.EntryRequest) (*ledgerModel.Transaction, error)
}
