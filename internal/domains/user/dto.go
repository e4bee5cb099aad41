package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"recycle-rewards-backend/internal/shared"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Phone    string      `json:"phone,omitempty"`
	Role     shared.Role `json:"role"`
}

// NormalizeEmail trims and lowercases an address before it is validated or stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
			validation.Match(regexp.MustCompile(`[A-Za-z]`)).Error("password must contain at least one letter"),
			validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
		),
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Phone,
			validation.When(r.Phone != "",
				validation.Match(phonePattern).Error("phone must be 8-15 digits"),
			),
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.In(shared.RoleDonor, shared.RoleCollector).Error("role must be DONOR or COLLECTOR"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User         UserDTO   `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ========================================
// USER PROFILE DTOs
// ========================================

type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"fullName"`
	Phone       *string     `json:"phone,omitempty"`
	Role        shared.Role `json:"role"`
	Points      int         `json:"points"`
	IsActive    bool        `json:"isActive"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Phone, validation.When(r.Phone != nil && *r.Phone != "",
			validation.Match(phonePattern).Error("phone must be 8-15 digits"),
		)),
	)
}

// ========================================
// ADMIN DTOs
// ========================================

type ListUsersRequest struct {
	Role     *shared.Role
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

func (r ListUsersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.In(shared.RoleDonor, shared.RoleCollector, shared.RoleAdmin)),
		validation.Field(&r.Search, validation.Length(0, 100)),
	)
}

type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
	Total int64     `json:"total"`
}

// AdminStats backs GET /admin/stats.
type AdminStats struct {
	UsersByRole      map[shared.Role]int64 `json:"usersByRole"`
	RequestsByStatus map[string]int64      `json:"requestsByStatus"`
	PointsIssued     int64                 `json:"pointsIssued"`
	PointsRedeemed   int64                 `json:"pointsRedeemed"`
}
