// Package ledgertest provides an in-memory ledger Repository.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/domains/ledger/repository"
)

type Repository struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
	entries  []model.Transaction
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{balances: make(map[uuid.UUID]int)}
}

// AddUser registers a user whose balance is backed by one EARN entry.
func (r *Repository) AddUser(userID uuid.UUID, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.balances[userID] = points
	if points > 0 {
		r.entries = append(r.entries, model.Transaction{
			ID:           uuid.New(),
			UserID:       userID,
			Type:         model.TypeEarn,
			Amount:       points,
			BalanceAfter: points,
			Description:  "opening balance",
			CreatedAt:    time.Now(),
		})
	}
}

// ForceBalance writes users.points without a ledger entry.
func (r *Repository) ForceBalance(userID uuid.UUID, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] = points
}

func (r *Repository) Balance(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[userID]
}

// LedgerSum is Σ EARN − Σ REDEEM for userID.
func (r *Repository) LedgerSum(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sumLocked(userID)
}

func (r *Repository) sumLocked(userID uuid.UUID) int {
	sum := 0
	for _, e := range r.entries {
		if e.UserID == userID {
			sum += e.Signed()
		}
	}
	return sum
}

// Entries returns userID's entries in insertion order.
func (r *Repository) Entries(userID uuid.UUID) []model.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Transaction
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot implements txtest.Snapshotter.
func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	balances := make(map[uuid.UUID]int, len(r.balances))
	for k, v := range r.balances {
		balances[k] = v
	}
	entries := append([]model.Transaction(nil), r.entries...)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.balances = balances
		r.entries = entries
	}
}

func (r *Repository) IncrementBalanceWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[userID]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	balance += amount
	r.balances[userID] = balance
	return balance, nil
}

func (r *Repository) DecrementBalanceWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[userID]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	if balance < amount {
		return 0, model.ErrInsufficientBalance
	}
	balance -= amount
	r.balances[userID] = balance
	return balance, nil
}

func (r *Repository) InsertWithTx(_ context.Context, _ pgx.Tx, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *t)
	return nil
}

func (r *Repository) GetBalance(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[userID]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	return balance, nil
}

func (r *Repository) ListByUser(_ context.Context, filter model.ListFilter) ([]model.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.Transaction
	for _, e := range r.entries {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []model.Transaction{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (r *Repository) FindMismatches(_ context.Context, userID *uuid.UUID) ([]model.BalanceMismatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.BalanceMismatch
	for id, points := range r.balances {
		if userID != nil && id != *userID {
			continue
		}
		if sum := r.sumLocked(id); sum != points {
			out = append(out, model.BalanceMismatch{UserID: id, CachedPoints: points, LedgerPoints: sum})
		}
	}
	return out, nil
}

func (r *Repository) Totals(_ context.Context) (*model.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var totals model.Totals
	for _, e := range r.entries {
		if e.Type == model.TypeEarn {
			totals.Earned += int64(e.Amount)
		} else {
			totals.Redeemed += int64(e.Amount)
		}
	}
	return &totals, nil
}
