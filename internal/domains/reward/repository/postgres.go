package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/logger"
)

const listCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

const rewardColumns = `id, name, description, points_cost, stock, image_url, is_active, created_at, updated_at`

func scanReward(row pgx.Row) (*model.Reward, error) {
	var r model.Reward
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.PointsCost, &r.Stock, &r.ImageURL, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *postgresRepository) InvalidateList(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, "rewards:list:*"); err != nil {
		logger.Warn("Failed to invalidate reward list cache", map[string]interface{}{"error": err.Error()})
	}
}

func (r *postgresRepository) Create(ctx context.Context, rw *model.Reward) error {
	query := `
		INSERT INTO rewards (id, name, description, points_cost, stock, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		rw.ID, rw.Name, rw.Description, rw.PointsCost, rw.Stock, rw.ImageURL, rw.IsActive, rw.CreatedAt, rw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create reward: %w", apperr.FromPg(err, nil))
	}

	r.InvalidateList(ctx)
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	rw, err := scanReward(r.pool.QueryRow(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRewardNotFound
		}
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return rw, nil
}

func (r *postgresRepository) List(ctx context.Context, includeInactive bool) ([]model.Reward, error) {
	key := fmt.Sprintf(cache.KeyRewardList, includeInactive)

	var cached []model.Reward
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	query := `SELECT ` + rewardColumns + ` FROM rewards`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY points_cost, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	items := make([]model.Reward, 0)
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		items = append(items, *rw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, items, listCacheTTL); err != nil {
		logger.Warn("Failed to cache reward list", map[string]interface{}{"error": err.Error()})
	}
	return items, nil
}

func (r *postgresRepository) Update(ctx context.Context, rw *model.Reward) error {
	query := `
		UPDATE rewards
		SET name = $2, description = $3, points_cost = $4, stock = $5, image_url = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		rw.ID, rw.Name, rw.Description, rw.PointsCost, rw.Stock, rw.ImageURL, rw.IsActive, rw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update reward: %w", apperr.FromPg(err, nil))
	}
	if result.RowsAffected() == 0 {
		return model.ErrRewardNotFound
	}

	r.InvalidateList(ctx)
	return nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE rewards SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set reward active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrRewardNotFound
	}

	r.InvalidateList(ctx)
	return nil
}

func (r *postgresRepository) TakeOneWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, int, error) {
	query := `
		UPDATE rewards
		SET stock = stock - 1, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock > 0
		RETURNING points_cost, stock
	`

	var cost, remaining int
	err := tx.QueryRow(ctx, query, id).Scan(&cost, &remaining)
	if err == nil {
		return cost, remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, fmt.Errorf("take reward stock: %w", err)
	}

	// Guard failed: tell the three reasons apart
	var active bool
	if err := tx.QueryRow(ctx, `SELECT is_active FROM rewards WHERE id = $1`, id).Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, model.ErrRewardNotFound
		}
		return 0, 0, fmt.Errorf("probe reward: %w", err)
	}
	if !active {
		return 0, 0, model.ErrRewardInactive
	}
	return 0, 0, model.ErrOutOfStock
}

func (r *postgresRepository) CreateRedemptionWithTx(ctx context.Context, tx pgx.Tx, rd *model.Redemption) error {
	query := `
		INSERT INTO reward_redemptions (id, user_id, reward_id, transaction_id, points_spent, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query, rd.ID, rd.UserID, rd.RewardID, rd.TransactionID, rd.PointsSpent, rd.Status, rd.CreatedAt)
	if err != nil {
		return fmt.Errorf("create redemption: %w", apperr.FromPg(err, nil))
	}
	return nil
}

func (r *postgresRepository) ListRedemptions(ctx context.Context, filter model.RedemptionFilter) ([]model.Redemption, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reward_redemptions WHERE user_id = $1`, filter.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count redemptions: %w", err)
	}

	query := `
		SELECT rr.id, rr.user_id, rr.reward_id, rw.name, rr.transaction_id, rr.points_spent, rr.status, rr.created_at
		FROM reward_redemptions rr
		JOIN rewards rw ON rw.id = rr.reward_id
		WHERE rr.user_id = $1
		ORDER BY rr.created_at DESC, rr.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	items := make([]model.Redemption, 0, filter.Limit)
	for rows.Next() {
		var rd model.Redemption
		if err := rows.Scan(&rd.ID, &rd.UserID, &rd.RewardID, &rd.RewardName, &rd.TransactionID, &rd.PointsSpent, &rd.Status, &rd.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan redemption: %w", err)
		}
		items = append(items, rd)
	}
	return items, total, rows.Err()
}
