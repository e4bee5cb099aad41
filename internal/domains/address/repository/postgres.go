package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-rewards-backend/internal/domains/address"
	"recycle-rewards-backend/internal/shared/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) address.Repository {
	return &postgresRepository{pool: pool}
}

const addressColumns = `id, user_id, street, ward, district, city, latitude, longitude, is_primary, created_at, updated_at`

func scanAddress(row pgx.Row) (*address.Address, error) {
	var a address.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Street, &a.Ward, &a.District, &a.City,
		&a.Latitude, &a.Longitude, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, a *address.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, street, ward, district, city, latitude, longitude, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		a.ID, a.UserID, a.Street, a.Ward, a.District, a.City,
		a.Latitude, a.Longitude, a.IsPrimary, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create address: %w", apperr.FromPg(err, nil))
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	a, err := scanAddress(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]address.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	items := make([]address.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *postgresRepository) CountByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error) {
	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *address.Address) error {
	query := `
		UPDATE addresses
		SET street = $3, ward = $4, district = $5, city = $6, latitude = $7, longitude = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.Street, a.Ward, a.District, a.City, a.Latitude, a.Longitude, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", apperr.FromPg(err, nil))
	}
	if result.RowsAffected() == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) error {
	result, err := tx.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(apperr.FromPg(err, nil), apperr.ErrInUse) {
			return address.ErrAddressInUse.Wrap(err)
		}
		return fmt.Errorf("delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) ClearPrimaryWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE addresses SET is_primary = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_primary`, userID)
	if err != nil {
		return fmt.Errorf("clear primary address: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetPrimaryWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) error {
	result, err := tx.Exec(ctx,
		`UPDATE addresses SET is_primary = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("set primary address: %w", apperr.FromPg(err, nil))
	}
	if result.RowsAffected() == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) PromoteNewestWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `
		UPDATE addresses SET is_primary = TRUE, updated_at = NOW()
		WHERE id = (
			SELECT id FROM addresses WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)
	`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("promote address: %w", err)
	}
	return nil
}
