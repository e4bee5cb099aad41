package model

import "recycle-rewards-backend/internal/shared/apperr"

var (
	ErrRewardNotFound = apperr.New(apperr.KindNotFound, "RWD001", "Reward not found")
	ErrRewardInactive = apperr.New(apperr.KindConflict, "RWD002", "Reward is no longer available")
	ErrOutOfStock     = apperr.New(apperr.KindOutOfStock, "RWD003", "Reward is out of stock")
)
