package model

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrRequestNotFound      = apperr.New(apperr.KindNotFound, "DON001", "Donation request not found")
	ErrInvalidTransition    = apperr.New(apperr.KindConflict, "DON002", "Donation request status does not allow this action")
	ErrNotRequestOwner      = apperr.New(apperr.KindForbidden, "DON003", "Only the donor or an admin can do this")
	ErrNotAssignedCollector = apperr.New(apperr.KindForbidden, "DON004", "Only the assigned collector can complete this request")
	ErrInvalidCode          = apperr.New(apperr.KindValidation, "DON005", "Verification code does not match")
	ErrTooManyAttempts      = apperr.New(apperr.KindTooManyRequests, "DON006", "Too many wrong verification codes")
	ErrInvalidWeight        = apperr.New(apperr.KindValidation, "DON007", "Weight must be greater than zero")
	ErrRequestNotVisible    = apperr.New(apperr.KindForbidden, "DON008", "You cannot view this donation request")
	ErrInvalidStatus        = apperr.New(apperr.KindValidation, "DON009", "Unknown donation status")
)
