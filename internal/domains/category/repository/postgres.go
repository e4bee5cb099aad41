package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-rewards-backend/internal/domains/category"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/logger"
)

const listCacheTTL = 30 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) category.CategoryRepository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const categoryColumns = `id, name, description, points_per_kg, unit, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*category.WasteCategory, error) {
	var c category.WasteCategory
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.PointsPerKg, &c.Unit, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// invalidateList drops both the active-only and the full list.
func (r *postgresRepository) invalidateList(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, "waste_categories:list:*"); err != nil {
		logger.Warn("Failed to invalidate category list cache", map[string]interface{}{"error": err.Error()})
	}
}

func (r *postgresRepository) Create(ctx context.Context, c *category.WasteCategory) error {
	query := `
		INSERT INTO waste_categories (id, name, description, points_per_kg, unit, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.PointsPerKg, c.Unit, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", apperr.FromPg(err, category.ErrDuplicateName))
	}

	r.invalidateList(ctx)
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories WHERE id = $1`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// List: cache-aside keyed by includeInactive.
func (r *postgresRepository) List(ctx context.Context, includeInactive bool) ([]category.WasteCategory, error) {
	key := fmt.Sprintf(cache.KeyCategoryList, includeInactive)

	var cached []category.WasteCategory
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM waste_categories`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]category.WasteCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, items, listCacheTTL); err != nil {
		logger.Warn("Failed to cache category list", map[string]interface{}{"error": err.Error()})
	}
	return items, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *category.WasteCategory) error {
	query := `
		UPDATE waste_categories
		SET name = $2, description = $3, points_per_kg = $4, unit = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.PointsPerKg, c.Unit, c.IsActive, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", apperr.FromPg(err, category.ErrDuplicateName))
	}
	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	r.invalidateList(ctx)
	return nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE waste_categories SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	r.invalidateList(ctx)
	return nil
}
