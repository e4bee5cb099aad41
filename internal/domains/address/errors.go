package address

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrAddressNotFound  = apperr.New(apperr.KindNotFound, "ADR001", "Address not found")
	ErrAddressForbidden = apperr.New(apperr.KindForbidden, "ADR002", "Address belongs to another user")
	ErrAddressInUse     = apperr.New(apperr.KindConflict, "ADR003", "Address is used by a donation request")
)
