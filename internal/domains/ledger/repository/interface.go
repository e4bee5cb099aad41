package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/ledger/model"
)

// Repository owns users.points and the transactions table.
// users.points is only ever changed through these methods.
type Repository interface {
	// IncrementBalanceWithTx adds amount and returns the new balance.
	// Returns ErrUserNotFound when the user does not exist.
	IncrementBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error)

	// DecrementBalanceWithTx subtracts amount only while points >= amount.
	// Returns ErrInsufficientBalance or ErrUserNotFound when the guard fails.
	DecrementBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error)

	InsertWithTx(ctx context.Context, tx pgx.Tx, t *model.Transaction) error

	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, filter model.ListFilter) ([]model.Transaction, int64, error)

	// FindMismatches compares users.points with the ledger sum.
	// userID nil checks every user.
	FindMismatches(ctx context.Context, userID *uuid.UUID) ([]model.BalanceMismatch, error)
	Totals(ctx context.Context) (*model.Totals, error)
}
