package main

import (
	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/infrastructure/queue"
	"recycle-rewards-backend/pkg/container"
	"recycle-rewards-backend/pkg/logger"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(redisOpt asynq.RedisClientOpt, c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(redisOpt, c.Config.Job)

	if err := scheduler.RegisterJobs(); err != nil {
		logger.Fatal("[Scheduler] Failed to register", err)
	}

	go func() {
		logger.Info("[Scheduler] Starting", nil)
		if err := scheduler.Start(); err != nil {
			logger.Fatal("[Scheduler] Failed", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	logger.Info("[Scheduler] Shutting down", nil)
	s.Scheduler.Shutdown()
}
