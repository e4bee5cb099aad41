package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// AuthMiddleware validates the Bearer access token and stores the principal in the context.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read "Authorization: Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		// 2. Verify signature, expiry and token type
		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			return
		}

		role := shared.Role(claims.Role)
		if !role.IsValid() {
			response.Unauthorized(c, "Invalid role in token")
			return
		}

		// 3. Expose principal to handlers
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// OptionalAuth sets the principal when a valid Bearer token is present
// and lets anonymous requests through otherwise.
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtManager); ok {
			if userID, err := uuid.Parse(claims.UserID); err == nil && shared.Role(claims.Role).IsValid() {
				c.Set(ContextUserID, userID)
				c.Set(ContextRole, shared.Role(claims.Role))
				c.Set(ContextEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// bearerClaims returns the claims of a valid access token, if any.
func bearerClaims(c *gin.Context, jwtManager *jwt.Manager) (*jwt.Claims, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := jwtManager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// IsAdmin reports whether the caller is an authenticated admin.
func IsAdmin(c *gin.Context) bool {
	role, ok := GetRole(c)
	return ok && role == shared.RoleAdmin
}

// RequireRoles allows the request only when the caller has one of roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			return
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Access denied for role "+role.String())
	}
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetRole returns the authenticated role.
func GetRole(c *gin.Context) (shared.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(shared.Role)
	return role, ok
}

// GetActor combines GetUserID and GetRole.
func GetActor(c *gin.Context) (shared.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return shared.Actor{}, false
	}
	role, ok := GetRole(c)
	if !ok {
		return shared.Actor{}, false
	}
	return shared.Actor{UserID: id, Role: role}, true
}
