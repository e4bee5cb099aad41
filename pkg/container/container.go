package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/config"
	infraCache "recycle-rewards-backend/internal/infrastructure/cache"
	infraDB "recycle-rewards-backend/internal/infrastructure/database"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/jwt"
	"recycle-rewards-backend/pkg/logger"

	"recycle-rewards-backend/internal/domains/address"
	addressHandler "recycle-rewards-backend/internal/domains/address/handler"
	addressRepo "recycle-rewards-backend/internal/domains/address/repository"
	addressService "recycle-rewards-backend/internal/domains/address/service"
	"recycle-rewards-backend/internal/domains/category"
	categoryHandler "recycle-rewards-backend/internal/domains/category/handler"
	categoryRepo "recycle-rewards-backend/internal/domains/category/repository"
	categoryService "recycle-rewards-backend/internal/domains/category/service"
	donationHandler "recycle-rewards-backend/internal/domains/donation/handler"
	donationRepo "recycle-rewards-backend/internal/domains/donation/repository"
	donationService "recycle-rewards-backend/internal/domains/donation/service"
	ledgerHandler "recycle-rewards-backend/internal/domains/ledger/handler"
	ledgerRepo "recycle-rewards-backend/internal/domains/ledger/repository"
	ledgerService "recycle-rewards-backend/internal/domains/ledger/service"
	notificationHandler "recycle-rewards-backend/internal/domains/notification/handler"
	notificationRepo "recycle-rewards-backend/internal/domains/notification/repository"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	rewardHandler "recycle-rewards-backend/internal/domains/reward/handler"
	rewardRepo "recycle-rewards-backend/internal/domains/reward/repository"
	rewardService "recycle-rewards-backend/internal/domains/reward/service"
	"recycle-rewards-backend/internal/domains/user"
	userHandler "recycle-rewards-backend/internal/domains/user/handler"
	userRepo "recycle-rewards-backend/internal/domains/user/repository"
	userService "recycle-rewards-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by cmd/api and cmd/worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *infraDB.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	TxManager   database.TxManager
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	LoginLimiter  *cache.AttemptLimiter
	VerifyLimiter *cache.AttemptLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo         user.Repository
	CategoryRepo     category.CategoryRepository
	AddressRepo      address.Repository
	LedgerRepo       ledgerRepo.Repository
	NotificationRepo notificationRepo.NotificationRepository
	DonationRepo     donationRepo.Repository
	RewardRepo       rewardRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	NotificationService notificationService.NotificationService
	LedgerService       ledgerService.Service
	CategoryService     category.CategoryService
	AddressService      address.Service
	DonationService     donationService.Service
	RewardService       rewardService.Service
	UserService         user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler         *userHandler.UserHandler
	CategoryHandler     *categoryHandler.CategoryHandler
	AddressHandler      *addressHandler.AddressHandler
	DonationHandler     *donationHandler.DonationHandler
	RewardHandler       *rewardHandler.RewardHandler
	LedgerHandler       *ledgerHandler.LedgerHandler
	NotificationHandler *notificationHandler.NotificationHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("Config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := infraDB.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	c.TxManager = database.NewTxManager(db.Pool)

	// ========================================
	// STEP 3: REDIS (cache, limiters, task queue)
	// ========================================
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		// cache misses fall through to Postgres; limiters fail open
		logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{"error": err.Error()})
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.LoginLimiter = cache.NewAttemptLimiter(c.Cache, cache.KeyLoginFailures,
		cfg.Points.MaxLoginAttempts, cfg.Points.LoginLockWindow)
	c.VerifyLimiter = cache.NewAttemptLimiter(c.Cache, cache.KeyVerifyAttempt,
		cfg.Points.MaxVerifyAttempts, cfg.Points.VerifyLockWindow)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// ========================================
	// STEP 4-6: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool, c.Cache)
	c.AddressRepo = addressRepo.NewPostgresRepository(pool)
	c.LedgerRepo = ledgerRepo.NewPostgresRepository(pool)
	c.NotificationRepo = notificationRepo.NewNotificationRepository(pool)
	c.DonationRepo = donationRepo.NewPostgresRepository(pool)
	c.RewardRepo = rewardRepo.NewPostgresRepository(pool, c.Cache)
}

func (c *Container) initServices() {
	c.NotificationService = notificationService.NewNotificationService(c.NotificationRepo)

	c.LedgerService = ledgerService.NewLedgerService(
		c.LedgerRepo,
		c.TxManager,
		c.NotificationService,
		c.AsynqClient,
	)

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.AddressService = addressService.NewAddressService(c.AddressRepo, c.TxManager)

	c.DonationService = donationService.NewDonationService(
		c.DonationRepo,
		c.TxManager,
		c.CategoryService,
		c.AddressService,
		c.LedgerService,
		c.NotificationService,
		c.VerifyLimiter,
		c.Config.Points.VerificationCodeLength,
	)

	c.RewardService = rewardService.NewRewardService(
		c.RewardRepo,
		c.TxManager,
		c.LedgerService,
		c.NotificationService,
	)

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.TxManager,
		c.NotificationService,
		c.LedgerService,
		c.DonationService,
		c.JWTManager,
		c.LoginLimiter,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Config.IsProduction())
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
	c.DonationHandler = donationHandler.NewDonationHandler(c.DonationService)
	c.RewardHandler = rewardHandler.NewRewardHandler(c.RewardService)
	c.LedgerHandler = ledgerHandler.NewLedgerHandler(c.LedgerService)
	c.NotificationHandler = notificationHandler.NewNotificationHandler(c.NotificationService)
}

// Cleanup releases pools and clients on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	logger.Info("Container cleanup completed", nil)
}
