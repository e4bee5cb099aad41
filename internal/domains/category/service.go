package category

import (
	"context"

	"github.com/google/uuid"
)

// CategoryService is the waste category business logic contract.
type CategoryService interface {
	List(ctx context.Context, includeInactive bool) ([]WasteCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*WasteCategory, error)

	// GetActive is used by the donation flow: NotFound, or Validation when inactive.
	GetActive(ctx context.Context, id uuid.UUID) (*WasteCategory, error)

	Create(ctx context.Context, req CreateRequest) (*WasteCategory, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*WasteCategory, error)

	// Deactivate is the DELETE operation.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
