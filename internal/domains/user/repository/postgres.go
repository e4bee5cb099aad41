package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/logger"
)

const userCacheTTL = 15 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const userColumns = `id, email, password_hash, full_name, phone, role, points, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.Points,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf(cache.KeyUserByID, id)
}

func (r *postgresRepository) Invalidate(ctx context.Context, id uuid.UUID) {
	r.invalidate(ctx, id)
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, r.cacheKey(id)); err != nil {
		logger.Warn("Failed to invalidate user cache", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
	}
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, phone, role, points, is_active, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, 0, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Phone,
		u.Role,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", apperr.FromPg(err, user.ErrEmailAlreadyExists))
	}
	return nil
}

// FindByID is cache-aside. A cache failure falls through to the database.
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := r.cacheKey(id)

	var cached user.User
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	_ = r.cache.Set(ctx, key, u, userCacheTTL)
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1)`

	u, err := scanUser(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// UpdateProfile only touches the fields that are not nil.
func (r *postgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error {
	query := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, fullName, phone)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) SetActiveWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, isActive bool) error {
	result, err := tx.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, isActive)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

// ========================================
// ADMIN FUNCTIONS
// ========================================

func (r *postgresRepository) List(ctx context.Context, req user.ListUsersRequest) ([]user.User, int64, error) {
	where := utils.NewWhereBuilder()
	if req.Role != nil {
		where.Add("role = $%d", string(*req.Role))
	}
	if req.IsActive != nil {
		where.Add("is_active = $%d", *req.IsActive)
	}
	if req.Search != "" {
		where.Add("(email ILIKE $%[1]d OR full_name ILIKE $%[1]d)", "%"+req.Search+"%")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	p := utils.Pagination{Page: req.Page, Limit: req.Limit}.Normalize()
	next := where.Next()
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where.SQL(), next, next+1)
	args := append(where.Args(), p.Limit, p.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, p.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return users, total, nil
}

func (r *postgresRepository) CountByRole(ctx context.Context) (map[shared.Role]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count by role: %w", err)
	}
	defer rows.Close()

	counts := map[shared.Role]int64{
		shared.RoleDonor:     0,
		shared.RoleCollector: 0,
		shared.RoleAdmin:     0,
	}
	for rows.Next() {
		var role shared.Role
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
