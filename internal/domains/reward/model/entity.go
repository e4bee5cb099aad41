package model

import (
	"time"

	"github.com/google/uuid"
)

// ================================================
// REWARD ENTITY
// ================================================

type Reward struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PointsCost  int       `json:"pointsCost"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Redeemable reports whether the reward can be handed out right now.
func (r *Reward) Redeemable() bool {
	return r.IsActive && r.Stock > 0
}

// ================================================
// REDEMPTION ENTITY
// ================================================

const RedemptionStatusRedeemed = "REDEEMED"

// Redemption links a spent REDEEM ledger entry to the reward handed out.
type Redemption struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	RewardID      uuid.UUID `json:"rewardId"`
	RewardName    string    `json:"rewardName,omitempty"`
	TransactionID uuid.UUID `json:"transactionId"`
	PointsSpent   int       `json:"pointsSpent"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
