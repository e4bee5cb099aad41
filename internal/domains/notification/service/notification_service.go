package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/repository"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/logger"
)

type notificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo, now: time.Now}
}

// NotifyWithTx persists n in the caller's transaction, so the notification
// exists if and only if the state change that produced it commits.
func (s *notificationService) NotifyWithTx(ctx context.Context, tx pgx.Tx, n *model.Notification) error {
	if n == nil || n.UserID == uuid.Nil || n.Type == "" || n.Title == "" {
		return model.ErrInvalidNotification
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	return s.repo.CreateWithTx(ctx, tx, n)
}

func (s *notificationService) List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error) {
	p := utils.Pagination{Page: req.Page, Limit: req.Limit}.Normalize()

	items, total, err := s.repo.ListByUser(ctx, req.UserID, req.UnreadOnly, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &model.ListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// CleanupOldRead removes read notifications older than olderThan.
func (s *notificationService) CleanupOldRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("cleanup window must be positive, got %s", olderThan)
	}

	before := s.now().Add(-olderThan)
	deleted, err := s.repo.DeleteOldRead(ctx, before)
	if err != nil {
		return 0, err
	}

	logger.Info("Deleted old read notifications", map[string]interface{}{
		"before":  before,
		"deleted": deleted,
	})
	return deleted, nil
}
