package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/reward/model"
)

type Repository interface {
	Create(ctx context.Context, r *model.Reward) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)

	// List is served from cache; writes invalidate it.
	List(ctx context.Context, includeInactive bool) ([]model.Reward, error)
	Update(ctx context.Context, r *model.Reward) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// TakeOneWithTx decrements stock only while the reward is active and in
	// stock, returning the cost and the stock left. A miss is NotFound,
	// ErrRewardInactive or ErrOutOfStock.
	TakeOneWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (cost int, remaining int, err error)

	CreateRedemptionWithTx(ctx context.Context, tx pgx.Tx, r *model.Redemption) error
	ListRedemptions(ctx context.Context, filter model.RedemptionFilter) ([]model.Redemption, int64, error)

	// InvalidateList drops the cached catalog after a committed stock change.
	InvalidateList(ctx context.Context)
}
