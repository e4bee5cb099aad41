package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/notificationtest"
)

func seed(t *testing.T, s NotificationService, userID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		notif := model.New(userID, model.TypeDonationAccepted, "Accepted", "Your request was accepted", nil)
		require.NoError(t, s.NotifyWithTx(context.Background(), nil, notif))
		ids = append(ids, notif.ID)
	}
	return ids
}

func TestNotifyWithTx_RejectsIncomplete(t *testing.T) {
	s := NewNotificationService(notificationtest.NewRepository())

	err := s.NotifyWithTx(context.Background(), nil, &model.Notification{Type: model.TypePointsEarned})
	assert.ErrorIs(t, err, model.ErrInvalidNotification)
}

func TestListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	s := NewNotificationService(notificationtest.NewRepository())
	owner := uuid.New()
	ids := seed(t, s, owner, 3)
	seed(t, s, uuid.New(), 2)

	res, err := s.List(ctx, model.ListRequest{UserID: owner})
	require.NoError(t, err)
	assert.Len(t, res.Notifications, 3)
	assert.EqualValues(t, 3, res.UnreadCount)

	n, err := s.MarkAsRead(ctx, ids[0], owner)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.ReadAt)

	unread, err := s.List(ctx, model.ListRequest{UserID: owner, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 2)

	updated, err := s.MarkAllAsRead(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	count, err := s.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestForeignNotificationIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewNotificationService(notificationtest.NewRepository())
	ids := seed(t, s, uuid.New(), 1)
	stranger := uuid.New()

	_, err := s.MarkAsRead(ctx, ids[0], stranger)
	assert.ErrorIs(t, err, model.ErrNotificationNotFound)
	assert.ErrorIs(t, s.Delete(ctx, ids[0], stranger), model.ErrNotificationNotFound)
}

func TestCleanupOldRead(t *testing.T) {
	ctx := context.Background()
	repo := notificationtest.NewRepository()
	svc := NewNotificationService(repo).(*notificationService)
	owner := uuid.New()
	ids := seed(t, svc, owner, 2)
	require.NoError(t, svc.repo.MarkAsRead(ctx, ids[0], owner))

	svc.now = func() time.Time { return time.Now().Add(100 * 24 * time.Hour) }

	deleted, err := svc.CleanupOldRead(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
	assert.Len(t, repo.ForUser(owner), 1)

	_, err = svc.CleanupOldRead(ctx, 0)
	assert.Error(t, err)
}
