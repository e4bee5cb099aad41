// Package txtest provides an in-memory TxManager for service tests.
package txtest

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/pkg/database"
)

// Snapshotter is implemented by fake repositories that can restore their
// state when a transaction rolls back.
type Snapshotter interface {
	Snapshot() (restore func())
}

// TxManager serializes transactions and restores every registered store on error.
// The tx passed to fn is nil; fakes ignore it.
type TxManager struct {
	mu        sync.Mutex
	stores    []Snapshotter
	Commits   int
	Rollbacks int
}

var _ database.TxManager = (*TxManager)(nil)

func New(stores ...Snapshotter) *TxManager {
	return &TxManager{stores: stores}
}

func (m *TxManager) WithTransaction(ctx context.Context, fn database.TxFunc) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(restores)
			m.Rollbacks++
			panic(p)
		}
	}()

	if err = fn(pgx.Tx(nil)); err != nil {
		rollback(restores)
		m.Rollbacks++
		return err
	}

	m.Commits++
	return nil
}

func rollback(restores []func()) {
	for i := len(restores) - 1; i >= 0; i-- {
		restores[i]()
	}
}
