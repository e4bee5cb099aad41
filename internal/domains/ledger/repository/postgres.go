package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/internal/shared/utils"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, balance_after, description, related_id, created_at`

// signedAmount is the contribution of a ledger row to the balance.
const signedAmount = `CASE WHEN t.type = 'EARN' THEN t.amount ELSE -t.amount END`

func (r *postgresRepository) IncrementBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	query := `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points
	`

	var balance int
	if err := tx.QueryRow(ctx, query, userID, amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrUserNotFound
		}
		return 0, fmt.Errorf("increment balance: %w", err)
	}
	return balance, nil
}

func (r *postgresRepository) DecrementBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	query := `
		UPDATE users
		SET points = points - $2, updated_at = NOW()
		WHERE id = $1 AND points >= $2
		RETURNING points
	`

	var balance int
	err := tx.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement balance: %w", err)
	}

	// Guard failed: missing user or not enough points
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("probe user: %w", err)
	}
	if !exists {
		return 0, model.ErrUserNotFound
	}
	return 0, model.ErrInsufficientBalance
}

func (r *postgresRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, balance_after, description, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query, t.ID, t.UserID, t.Type, t.Amount, t.BalanceAfter, t.Description, t.RelatedID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", apperr.FromPg(err, nil))
	}
	return nil
}

func (r *postgresRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	if err := r.db.QueryRow(ctx, `SELECT points FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrUserNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, filter model.ListFilter) ([]model.Transaction, int64, error) {
	where := utils.NewWhereBuilder()
	where.Add("user_id = $%d", filter.UserID)
	if filter.Type != nil {
		where.Add("type = $%d", string(*filter.Type))
	}
	if filter.From != nil {
		where.Add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		where.Add("created_at < $%d", *filter.To)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	next := where.Next()
	query := fmt.Sprintf(`SELECT %s FROM transactions%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		transactionColumns, where.SQL(), next, next+1)
	args := append(where.Args(), filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]model.Transaction, 0, filter.Limit)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.BalanceAfter, &t.Description, &t.RelatedID, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}

	return items, total, rows.Err()
}

func (r *postgresRepository) FindMismatches(ctx context.Context, userID *uuid.UUID) ([]model.BalanceMismatch, error) {
	where := utils.NewWhereBuilder()
	if userID != nil {
		where.Add("u.id = $%d", *userID)
	}

	query := `
		SELECT u.id, u.email, u.points, COALESCE(SUM(` + signedAmount + `), 0)::INT AS ledger
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id` + where.SQL() + `
		GROUP BY u.id, u.email, u.points
		HAVING u.points <> COALESCE(SUM(` + signedAmount + `), 0)
		ORDER BY u.email
	`

	rows, err := r.db.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("find mismatches: %w", err)
	}
	defer rows.Close()

	var out []model.BalanceMismatch
	for rows.Next() {
		var m model.BalanceMismatch
		if err := rows.Scan(&m.UserID, &m.Email, &m.CachedPoints, &m.LedgerPoints); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Totals(ctx context.Context) (*model.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'EARN'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'REDEEM'), 0)
		FROM transactions
	`

	var totals model.Totals
	if err := r.db.QueryRow(ctx, query).Scan(&totals.Earned, &totals.Redeemed); err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	return &totals, nil
}
