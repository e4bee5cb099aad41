package model

import (
	"time"

	"github.com/google/uuid"
)

// ================================================
// NOTIFICATION ENTITY
// ================================================

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	RelatedID *uuid.UUID `json:"relatedId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Notification types
const (
	TypeDonationAccepted  = "DONATION_ACCEPTED"
	TypeDonationCancelled = "DONATION_CANCELLED"
	TypeDonationCompleted = "DONATION_COMPLETED"
	TypePointsEarned      = "POINTS_EARNED"
	TypeRewardRedeemed    = "REWARD_REDEEMED"
	TypeAccountStatus     = "ACCOUNT_STATUS"
)

// New builds an unsaved notification. related may be nil.
func New(userID uuid.UUID, notifType, title, message string, related *uuid.UUID) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: related,
		CreatedAt: time.Now(),
	}
}
