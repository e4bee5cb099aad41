package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// Populated from environment variables (.env is loaded by main).
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Points    PointsConfig
	RateLimit RateLimitConfig
	Job       JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string
	// TrustedProxies lists the IPs/CIDRs allowed to set X-Forwarded-For.
	// Empty means forwarding headers are ignored.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN is used by cmd/migrate (database/sql + lib/pq).
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// PointsConfig tunes the pickup verification flow.
type PointsConfig struct {
	VerificationCodeLength int
	MaxVerifyAttempts      int
	VerifyLockWindow       time.Duration
	MaxLoginAttempts       int
	LoginLockWindow        time.Duration
}

type RateLimitConfig struct {
	AuthPerMinute int
}

// JobConfig configures cmd/worker and its scheduler.
type JobConfig struct {
	Concurrency          int
	ReconcileCron        string
	CleanupCron          string
	CleanupRetentionDays int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Recycle Rewards API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
			TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "recycle_rewards"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  getEnvDuration("JWT_ACCESS_EXPIRY", time.Hour),
			RefreshTokenExpiry: getEnvDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Points: PointsConfig{
			VerificationCodeLength: getEnvInt("VERIFICATION_CODE_LENGTH", 6),
			MaxVerifyAttempts:      getEnvInt("MAX_VERIFY_ATTEMPTS", 5),
			VerifyLockWindow:       getEnvDuration("VERIFY_LOCK_WINDOW", 15*time.Minute),
			MaxLoginAttempts:       getEnvInt("MAX_LOGIN_ATTEMPTS", 5),
			LoginLockWindow:        getEnvDuration("LOGIN_LOCK_WINDOW", 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvInt("RATE_LIMIT_AUTH_PER_MINUTE", 30),
		},
		Job: JobConfig{
			Concurrency:          getEnvInt("WORKER_CONCURRENCY", 10),
			ReconcileCron:        getEnv("JOB_RECONCILE_CRON", "0 3 * * *"),
			CleanupCron:          getEnv("JOB_CLEANUP_CRON", "0 2 * * *"),
			CleanupRetentionDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 90),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret || c.JWT.Secret == "" {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD must be set in production")
		}
	}

	if c.Points.VerificationCodeLength < 4 || c.Points.VerificationCodeLength > 10 {
		return fmt.Errorf("VERIFICATION_CODE_LENGTH must be between 4 and 10, got %d", c.Points.VerificationCodeLength)
	}
	if c.Points.MaxVerifyAttempts <= 0 || c.Points.MaxLoginAttempts <= 0 {
		return errors.New("MAX_VERIFY_ATTEMPTS and MAX_LOGIN_ATTEMPTS must be positive")
	}
	for _, proxy := range c.App.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
			}
		}
	}
	if c.Job.Concurrency <= 0 {
		return errors.New("WORKER_CONCURRENCY must be positive")
	}
	if c.Job.CleanupRetentionDays <= 0 {
		return errors.New("NOTIFICATION_RETENTION_DAYS must be positive")
	}

	for name, expr := range map[string]string{
		"JOB_RECONCILE_CRON": c.Job.ReconcileCron,
		"JOB_CLEANUP_CRON":   c.Job.CleanupCron,
	} {
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, expr, err)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
