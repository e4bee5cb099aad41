package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"recycle-rewards-backend/pkg/container"
	"recycle-rewards-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("[Container] Failed to initialize: %v", err)
	}
	defer c.Cleanup()

	redisOpt := asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(redisOpt, c.Config.Job.Concurrency, handlers)
	scheduler := setupScheduler(redisOpt, c)

	if err := startServices(c); err != nil {
		logger.Fatal("[Startup] Health check failed", err)
	}

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("[Shutdown] Gracefully stopping", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("[Shutdown] Stopped", nil)
}
