package address

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the address business operations. Every call is scoped to userID.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Address, error)

	// GetOwned returns ErrAddressForbidden when the address belongs to someone else.
	GetOwned(ctx context.Context, userID, addressID uuid.UUID) (*Address, error)

	List(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateRequest) (*Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetPrimary(ctx context.Context, userID, addressID uuid.UUID) (*Address, error)
}
