package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TypeEarn   TransactionType = "EARN"
	TypeRedeem TransactionType = "REDEEM"
)

func (t TransactionType) IsValid() bool {
	return t == TypeEarn || t == TypeRedeem
}

// Transaction is an append-only ledger entry. BalanceAfter is the user's
// balance right after this entry was applied.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Type         TransactionType `json:"type"`
	Amount       int             `json:"amount"`
	BalanceAfter int             `json:"balanceAfter"`
	Description  string          `json:"description"`
	RelatedID    *uuid.UUID      `json:"relatedId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Signed returns the amount with the sign it contributes to the balance.
func (t Transaction) Signed() int {
	if t.Type == TypeRedeem {
		return -t.Amount
	}
	return t.Amount
}

// BalanceMismatch is a user whose cached points disagree with the ledger sum.
type BalanceMismatch struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	CachedPoints int       `json:"cachedPoints"`
	LedgerPoints int       `json:"ledgerPoints"`
}

func (m BalanceMismatch) Drift() int {
	return m.CachedPoints - m.LedgerPoints
}

// Totals across the whole ledger.
type Totals struct {
	Earned   int64 `json:"earned"`
	Redeemed int64 `json:"redeemed"`
}
