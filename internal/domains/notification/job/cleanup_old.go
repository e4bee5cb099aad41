package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/config"
	"recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/logger"
)

// ================================================
// CLEANUP OLD READ NOTIFICATIONS JOB HANDLER
// ================================================

type CleanupOldNotificationsHandler struct {
	notificationService service.NotificationService
	jobConfig           config.JobConfig
}

func NewCleanupOldNotificationsHandler(
	notificationService service.NotificationService,
	jobConfig config.JobConfig,
) *CleanupOldNotificationsHandler {
	return &CleanupOldNotificationsHandler{
		notificationService: notificationService,
		jobConfig:           jobConfig,
	}
}

func (h *CleanupOldNotificationsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.CleanupPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		// bad payload falls back to the configured retention
		logger.Error("Failed to unmarshal cleanup_old payload, using configured retention", err)
	}

	days := payload.Days
	if days <= 0 {
		days = h.jobConfig.CleanupRetentionDays
	}
	olderThan := time.Duration(days) * 24 * time.Hour

	logger.Info("Starting CleanupOldNotifications job", map[string]interface{}{
		"days": days,
	})

	deleted, err := h.notificationService.CleanupOldRead(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("cleanup old read notifications: %w", err)
	}

	logger.Info("Completed CleanupOldNotifications job", map[string]interface{}{
		"days":          days,
		"deleted_count": deleted,
	})

	return nil
}
