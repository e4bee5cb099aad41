package model

import "recycle-rewards-backend/internal/shared/apperr"

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrInvalidAmount       = apperr.New(apperr.KindValidation, "LED001", "Amount must be greater than zero")
	ErrInsufficientBalance = apperr.New(apperr.KindInsufficientBalance, "LED002", "Insufficient points balance")
	ErrUserNotFound        = apperr.New(apperr.KindNotFound, "LED003", "User not found")
	ErrInvalidType         = apperr.New(apperr.KindValidation, "LED004", "Transaction type must be EARN or REDEEM")
)
