package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is executed inside a transaction.
type TxFunc func(pgx.Tx) error

// TxManager runs a unit of work atomically.
// Services depend on this instead of the pool so they can be tested without postgres.
type TxManager interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}

type poolTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager returns a TxManager backed by a pgx pool.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &poolTxManager{pool: pool}
}

func (m *poolTxManager) WithTransaction(ctx context.Context, fn TxFunc) error {
	return WithTransaction(ctx, m.pool, fn)
}

// WithTransaction wraps fn in a transaction.
// Rolls back on error or panic, commits otherwise.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps a function that returns a value.
func WithTransactionResult[T any](ctx context.Context, m TxManager, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T

	err := m.WithTransaction(ctx, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
