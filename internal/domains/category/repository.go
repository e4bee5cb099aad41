package category

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository is the data access contract for waste categories.
type CategoryRepository interface {
	// Create returns ErrDuplicateName on a duplicate name.
	Create(ctx context.Context, c *WasteCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*WasteCategory, error)

	// List is cache-aside; writes invalidate it.
	List(ctx context.Context, includeInactive bool) ([]WasteCategory, error)

	Update(ctx context.Context, c *WasteCategory) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
