package main

import (
	"github.com/hibiken/asynq"

	ledgerJob "recycle-rewards-backend/internal/domains/ledger/job"
	notificationJob "recycle-rewards-backend/internal/domains/notification/job"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcile *ledgerJob.ReconcileHandler
	cleanup   *notificationJob.CleanupOldNotificationsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcile: ledgerJob.NewReconcileHandler(c.LedgerService),
		cleanup:   notificationJob.NewCleanupOldNotificationsHandler(c.NotificationService, c.Config.Job),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeLedgerReconcile, h.reconcile.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupOldNotifications, h.cleanup.ProcessTask)
}
