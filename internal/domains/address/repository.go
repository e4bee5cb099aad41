package address

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines all data access operations for the Address domain.
type Repository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, a *Address) error

	// GetByID returns ErrAddressNotFound; ownership is checked by the service.
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// ListByUser returns the primary first, then newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	CountByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error)

	Update(ctx context.Context, a *Address) error

	// DeleteWithTx returns ErrAddressInUse while a donation request references it.
	DeleteWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) error

	// ClearPrimaryWithTx unsets the user's primary; SetPrimaryWithTx marks one.
	ClearPrimaryWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
	SetPrimaryWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) error

	// PromoteNewestWithTx makes the newest remaining address primary, if any.
	PromoteNewestWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}
