package category

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "CAT001", "Waste category not found")
	ErrDuplicateName    = apperr.New(apperr.KindConflict, "CAT002", "Category name already exists")
	ErrCategoryInactive = apperr.New(apperr.KindValidation, "CAT003", "Waste category is not active")
)
