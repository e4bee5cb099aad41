package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/notification/model"
)

// NotificationService exposes the recipient inbox and the in-transaction writer
// used by the lifecycle services.
type NotificationService interface {
	NotifyWithTx(ctx context.Context, tx pgx.Tx, n *model.Notification) error

	List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	CleanupOldRead(ctx context.Context, olderThan time.Duration) (int64, error)
}
