package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"recycle-rewards-backend/internal/config"
	"recycle-rewards-backend/migrations"
	"recycle-rewards-backend/pkg/logger"
)

// Usage:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate status
func main() {
	_ = godotenv.Load()

	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.Environment)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("open database", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := ensureVersionTable(ctx, db); err != nil {
		logger.Fatal("create schema_migrations", err)
	}

	switch cmd {
	case "up":
		err = up(ctx, db)
	case "status":
		err = status(ctx, db)
	default:
		err = fmt.Errorf("unknown command %q (want up or status)", cmd)
	}
	if err != nil {
		logger.Fatal("migrate "+cmd, err)
	}
}

func ensureVersionTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func applied(ctx context.Context, db *sql.DB) (map[string]time.Time, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var v string
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, err
		}
		out[v] = at
	}
	return out, rows.Err()
}

// up applies each pending file in its own transaction.
func up(ctx context.Context, db *sql.DB) error {
	all, err := migrations.Up()
	if err != nil {
		return err
	}
	done, err := applied(ctx, db)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range all {
		if _, ok := done[m.Version]; ok {
			continue
		}

		if err := applyOne(ctx, db, m); err != nil {
			return err
		}
		count++
		logger.Info("✅ Applied migration", map[string]interface{}{"version": m.Version})
	}

	logger.Info("Migrations complete", map[string]interface{}{"applied": count, "total": len(all)})
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, m migrations.Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("%s: %s (code %s, position %s): %w", m.Version, pqErr.Message, pqErr.Code, pqErr.Position, err)
		}
		return fmt.Errorf("%s: %w", m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return fmt.Errorf("record %s: %w", m.Version, err)
	}

	return tx.Commit()
}

func status(ctx context.Context, db *sql.DB) error {
	all, err := migrations.Up()
	if err != nil {
		return err
	}
	done, err := applied(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range all {
		if at, ok := done[m.Version]; ok {
			fmt.Printf("[x] %s  %s\n", m.Version, at.Format(time.RFC3339))
		} else {
			fmt.Printf("[ ] %s\n", m.Version)
		}
	}
	return nil
}
