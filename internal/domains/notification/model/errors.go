package model

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrNotificationNotFound = apperr.New(apperr.KindNotFound, "NTF001", "Notification not found")
	ErrInvalidNotification  = apperr.New(apperr.KindValidation, "NTF002", "Notification requires user, type and title")
)
