package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the user business logic contract.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// EnsureActive returns ErrUserInactive for a deactivated account and
	// ErrInvalidToken when the account no longer exists.
	EnsureActive(ctx context.Context, userID uuid.UUID) error

	// Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)

	// Admin
	ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error)
	ToggleStatus(ctx context.Context, adminID, userID uuid.UUID) (*UserDTO, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
}

// RequestCounter reports donation request counts by status.
type RequestCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
