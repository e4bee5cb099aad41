package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/notification/model"
)

// ================================================
// NOTIFICATION REPOSITORY INTERFACE
// ================================================

type NotificationRepository interface {
	// Writes happen inside the transaction of the lifecycle change that caused them
	CreateWithTx(ctx context.Context, tx pgx.Tx, n *model.Notification) error

	// Recipient-scoped reads and updates; a foreign id behaves like a missing one
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// Cleanup
	DeleteOldRead(ctx context.Context, before time.Time) (int64, error)
}
