package user

import (
	"time"

	"github.com/google/uuid"

	"recycle-rewards-backend/internal/shared"
)

// User maps 1:1 to the users table.
// Points is written only by the ledger.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"fullName"`
	Phone        *string     `json:"phone,omitempty"`
	Role         shared.Role `json:"role"`
	Points       int         `json:"points"`
	IsActive     bool        `json:"isActive"`
	LastLoginAt  *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SelfRegistrable reports whether a role may be chosen at sign-up.
func SelfRegistrable(r shared.Role) bool {
	return r == shared.RoleDonor || r == shared.RoleCollector
}

// ToDTO strips credentials.
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        u.Role,
		Points:      u.Points,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
