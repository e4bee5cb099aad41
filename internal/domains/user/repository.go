package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/shared"
)

// Repository is the data access contract for users.
type Repository interface {
	// Create returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, u *User) error

	// FindByID is cache-aside. Returns ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail is case-insensitive and never cached.
	FindByEmail(ctx context.Context, email string) (*User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// SetActiveWithTx writes is_active. Returns ErrUserNotFound.
	SetActiveWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, isActive bool) error

	// Invalidate drops the cached row. Call it after the writing tx commits.
	Invalidate(ctx context.Context, id uuid.UUID)

	List(ctx context.Context, req ListUsersRequest) ([]User, int64, error)
	CountByRole(ctx context.Context) (map[shared.Role]int64, error)
}
