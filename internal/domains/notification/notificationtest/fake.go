// Package notificationtest provides an in-memory NotificationRepository.
package notificationtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/repository"
)

type Repository struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Notification
}

var _ repository.NotificationRepository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{items: make(map[uuid.UUID]model.Notification)}
}

// Snapshot implements txtest.Snapshotter.
func (r *Repository) Snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[uuid.UUID]model.Notification, len(r.items))
	for k, v := range r.items {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items = saved
	}
}

// ForUser returns a user's notifications, newest first.
func (r *Repository) ForUser(userID uuid.UUID) []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *Repository) CreateWithTx(_ context.Context, _ pgx.Tx, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = *n
	return nil
}

func (r *Repository) GetByID(_ context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return nil, model.ErrNotificationNotFound
	}
	return &n, nil
}

func (r *Repository) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	all := r.ForUser(userID)

	filtered := make([]model.Notification, 0, len(all))
	for _, n := range all {
		if unreadOnly && n.IsRead {
			continue
		}
		filtered = append(filtered, n)
	}

	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (r *Repository) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *Repository) MarkAsRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return model.ErrNotificationNotFound
	}
	if !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
		r.items[id] = n
	}
	return nil
}

func (r *Repository) MarkAllAsRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	now := time.Now()
	for id, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			r.items[id] = n
			count++
		}
	}
	return count, nil
}

func (r *Repository) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return model.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) DeleteOldRead(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, n := range r.items {
		if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(before) {
			delete(r.items, id)
			count++
		}
	}
	return count, nil
}
