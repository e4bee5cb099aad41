package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/jwt"
	"recycle-rewards-backend/pkg/logger"
)

const defaultBcryptCost = 12

// PointsReader is the part of the ledger the user service reads.
type PointsReader interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	Totals(ctx context.Context) (*ledgerModel.Totals, error)
}

type userService struct {
	repo         user.Repository
	txManager    database.TxManager
	notifier     notificationService.NotificationService
	points       PointsReader
	requests     user.RequestCounter
	jwtManager   *jwt.Manager
	loginLimiter *cache.AttemptLimiter
	bcryptCost   int
}

func NewUserService(
	repo user.Repository,
	txManager database.TxManager,
	notifier notificationService.NotificationService,
	points PointsReader,
	requests user.RequestCounter,
	jwtManager *jwt.Manager,
	loginLimiter *cache.AttemptLimiter,
) user.Service {
	return &userService{
		repo:         repo,
		txManager:    txManager,
		notifier:     notifier,
		points:       points,
		requests:     requests,
		jwtManager:   jwtManager,
		loginLimiter: loginLimiter,
		bcryptCost:   defaultBcryptCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Email = user.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !user.SelfRegistrable(req.Role) {
		return nil, user.ErrInvalidRole
	}

	// 2. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. CREATE USER ENTITY
	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        stringPtr(req.Phone),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. PERSIST; a duplicate email surfaces as ErrEmailAlreadyExists
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": newUser.ID,
		"role":    newUser.Role,
	})

	// 5. ISSUE TOKENS
	return s.issueTokens(newUser)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Email = user.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := req.Email

	// 2. CHECK LOCKOUT
	locked, retryIn, err := s.loginLimiter.Locked(ctx, email)
	if err != nil {
		logger.Error("Login limiter unavailable", err)
	} else if locked {
		return nil, user.ErrAccountLocked.WithMessage("Too many failed login attempts, try again in %d minutes", minutesCeil(retryIn))
	}

	// 3. FIND USER + VERIFY PASSWORD
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, email)
		return nil, user.ErrInvalidCredentials
	}

	// 4. CHECK USER STATUS
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	if err := s.loginLimiter.Reset(ctx, email); err != nil {
		logger.Error("Failed to reset login failures", err)
	}
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Error("Failed to update last login", err)
	}

	return s.issueTokens(u)
}

func (s *userService) recordFailure(ctx context.Context, email string) {
	left, err := s.loginLimiter.Fail(ctx, email)
	if err != nil {
		logger.Error("Failed to record login failure", err)
		return
	}
	if left == 0 {
		logger.Warn("Login locked after repeated failures", map[string]interface{}{"email": email})
	}
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken.Wrap(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken.Wrap(err)
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	return s.issueTokens(u)
}

func (s *userService) EnsureActive(ctx context.Context, userID uuid.UUID) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrInvalidToken
		}
		return err
	}
	if !u.IsActive {
		return user.ErrUserInactive
	}
	return nil
}

func (s *userService) issueTokens(u *user.User) (*user.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.AuthResponse{
		User:         u.ToDTO(),
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessTTL()),
	}, nil
}

// ========================================
// PROFILE
// ========================================

// GetProfile reads the cached profile; points always come from the ledger.
func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.points.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Points = balance

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Phone); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ========================================
// ADMIN FUNCTIONS
// ========================================

func (s *userService) ListUsers(ctx context.Context, req user.ListUsersRequest) (*user.ListUsersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return &user.ListUsersResponse{Users: dtos, Total: total}, nil
}

// ToggleStatus flips is_active and tells the user in the same transaction.
func (s *userService) ToggleStatus(ctx context.Context, adminID, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := !u.IsActive
	if !next && adminID == userID {
		return nil, user.ErrCannotDeactivateSelf
	}

	title, message := "Account reactivated", "Your account has been reactivated by an administrator."
	if !next {
		title, message = "Account deactivated", "Your account has been deactivated by an administrator."
	}

	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.SetActiveWithTx(ctx, tx, userID, next); err != nil {
			return err
		}
		return s.notifier.NotifyWithTx(ctx, tx,
			notificationModel.New(userID, notificationModel.TypeAccountStatus, title, message, nil))
	})
	if err != nil {
		return nil, err
	}
	s.repo.Invalidate(ctx, userID)

	logger.Info("User status changed", map[string]interface{}{
		"admin_id":  adminID,
		"user_id":   userID,
		"is_active": next,
	})

	u.IsActive = next
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) AdminStats(ctx context.Context) (*user.AdminStats, error) {
	byRole, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.points.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &user.AdminStats{
		UsersByRole:      byRole,
		RequestsByStatus: byStatus,
		PointsIssued:     totals.Earned,
		PointsRedeemed:   totals.Redeemed,
	}, nil
}

// ========================================
// HELPERS
// ========================================

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func minutesCeil(d time.Duration) int {
	m := int((d + time.Minute - 1) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}
