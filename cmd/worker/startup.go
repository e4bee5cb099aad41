package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recycle-rewards-backend/pkg/container"
	"recycle-rewards-backend/pkg/logger"
)

const healthAddr = ":9999"

// startServices checks the worker's backing stores and exposes /health.
func startServices(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis", c.Redis.HealthCheck},
		{"PostgreSQL", c.DB.HealthCheck},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s check failed: %w", check.name, err)
		}
		logger.Info("[Startup] Check passed", map[string]interface{}{"check": check.name})
	}

	go startHealthCheckServer(c)
	return nil
}

func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.Redis.HealthCheck(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"DOWN","service":"recycle-rewards-worker"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"UP","service":"recycle-rewards-worker"}`))
	})

	logger.Info("[Health] Listening", map[string]interface{}{"addr": healthAddr})
	if err := http.ListenAndServe(healthAddr, mux); err != nil {
		logger.Error("[Health] Failed to start", err)
	}
}
