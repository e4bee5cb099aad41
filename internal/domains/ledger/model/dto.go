package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// EntryRequest is the input of a credit or debit.
type EntryRequest struct {
	UserID      uuid.UUID
	Amount      int
	Description string
	RelatedID   *uuid.UUID
}

func (r EntryRequest) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.UserID == uuid.Nil {
		return ErrUserNotFound
	}
	return nil
}

// AdjustRequest is the admin manual adjustment body.
type AdjustRequest struct {
	Type        TransactionType `json:"type"`
	Amount      int             `json:"amount"`
	Description string          `json:"description"`
}

func (r AdjustRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(TypeEarn, TypeRedeem)),
		validation.Field(&r.Amount, validation.Required, validation.Min(1)),
		validation.Field(&r.Description, validation.Required, validation.Length(3, 255)),
	)
}

// ListFilter selects a page of one user's history.
type ListFilter struct {
	UserID uuid.UUID
	Type   *TransactionType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// HistoryResponse is GET /transactions/my-transactions.
type HistoryResponse struct {
	Transactions []Transaction `json:"transactions"`
	Balance      int           `json:"balance"`
	Total        int64         `json:"total"`
}

// ReconcileReport is produced by the reconciliation run.
type ReconcileReport struct {
	CheckedAt  time.Time         `json:"checkedAt"`
	Mismatches []BalanceMismatch `json:"mismatches"`
}

func (r ReconcileReport) Consistent() bool {
	return len(r.Mismatches) == 0
}

type EnqueueResponse struct {
	TaskID string `json:"taskId"`
	Queue  string `json:"queue"`
}
