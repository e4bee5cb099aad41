package database

import (
	"context"
	"time"

	"recycle-rewards-backend/pkg/logger"
)

// Close is safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	logger.Info("[DATABASE] Closing connection pool", nil)
	db.Pool.Close()
	db.Pool = nil

	return nil
}

// PoolStats is a JSON-friendly snapshot of pgxpool.Stat.
type PoolStats struct {
	TotalConns      int32         `json:"total_conns"`
	IdleConns       int32         `json:"idle_conns"`
	AcquiredConns   int32         `json:"acquired_conns"`
	MaxConns        int32         `json:"max_conns"`
	AcquireCount    int64         `json:"acquire_count"`
	AcquireDuration time.Duration `json:"acquire_duration"`
	EmptyAcquires   int64         `json:"empty_acquire_count"`
}

// Stats returns nil when the pool is not connected.
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}

	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:      s.TotalConns(),
		IdleConns:       s.IdleConns(),
		AcquiredConns:   s.AcquiredConns(),
		MaxConns:        s.MaxConns(),
		AcquireCount:    s.AcquireCount(),
		AcquireDuration: s.AcquireDuration(),
		EmptyAcquires:   s.EmptyAcquireCount(),
	}
}

// MonitorPoolHealth logs pool usage every interval until ctx is done.
// Warns when more than 80% of connections are acquired.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			if stats == nil || stats.MaxConns == 0 {
				continue
			}

			fields := map[string]interface{}{
				"total":    stats.TotalConns,
				"idle":     stats.IdleConns,
				"acquired": stats.AcquiredConns,
				"max":      stats.MaxConns,
			}
			if float64(stats.AcquiredConns)/float64(stats.MaxConns) > 0.8 {
				logger.Warn("[DATABASE] Pool usage above 80%", fields)
			} else {
				logger.Debug("[DATABASE] Pool stats", fields)
			}
		}
	}
}
