package job

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/config"
	"recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
)

type recordingService struct {
	service.NotificationService
	olderThan time.Duration
}

func (s *recordingService) CleanupOldRead(_ context.Context, olderThan time.Duration) (int64, error) {
	s.olderThan = olderThan
	return 3, nil
}

func TestCleanupUsesPayloadDays(t *testing.T) {
	svc := &recordingService{}
	h := NewCleanupOldNotificationsHandler(svc, config.JobConfig{CleanupRetentionDays: 90})

	task, err := utils.MarshalTask(shared.TypeCleanupOldNotifications, shared.CleanupPayload{Days: 7})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Equal(t, 7*24*time.Hour, svc.olderThan)
}

func TestCleanupFallsBackToConfiguredRetention(t *testing.T) {
	svc := &recordingService{}
	h := NewCleanupOldNotificationsHandler(svc, config.JobConfig{CleanupRetentionDays: 90})

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCleanupOldNotifications, nil)))
	assert.Equal(t, 90*24*time.Hour, svc.olderThan)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCleanupOldNotifications, []byte("{bad"))))
	assert.Equal(t, 90*24*time.Hour, svc.olderThan)
}
