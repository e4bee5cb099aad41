package main

import (
	"context"

	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/logger"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(redisOpt asynq.RedisClientOpt, concurrency int, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				shared.QueueCritical: 6,
				shared.QueueDefault:  3,
				shared.QueueLow:      1,
			},
			Concurrency: concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.ErrorWithFields("[Asynq] Task failed", err, map[string]interface{}{
					"type":      task.Type(),
					"retried":   retried,
					"max_retry": maxRetry,
				})
			}),
		},
	)

	go func() {
		logger.Info("[Worker] Starting", map[string]interface{}{"concurrency": concurrency})
		if err := srv.Run(mux); err != nil {
			logger.Fatal("[Worker] Failed", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to asynq's ShutdownTimeout.
func (s *asynqServer) Shutdown() {
	logger.Info("[Worker] Shutting down", nil)
	s.Server.Shutdown()
	logger.Info("[Worker] Stopped", nil)
}
