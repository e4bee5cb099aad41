package user

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrUserNotFound         = apperr.New(apperr.KindNotFound, "USR001", "User not found")
	ErrEmailAlreadyExists   = apperr.New(apperr.KindConflict, "USR002", "Email already exists")
	ErrInvalidCredentials   = apperr.New(apperr.KindUnauthorized, "USR003", "Invalid email or password")
	ErrUserInactive         = apperr.New(apperr.KindForbidden, "USR004", "User account is inactive")
	ErrInvalidRole          = apperr.New(apperr.KindValidation, "USR005", "Role must be DONOR or COLLECTOR")
	ErrAccountLocked        = apperr.New(apperr.KindTooManyRequests, "USR006", "Too many failed login attempts, please try again later")
	ErrInvalidToken         = apperr.New(apperr.KindUnauthorized, "USR007", "Invalid or expired token")
	ErrCannotDeactivateSelf = apperr.New(apperr.KindConflict, "USR008", "Admins cannot deactivate their own account")
)
