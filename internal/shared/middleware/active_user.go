package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/pkg/jwt"
)

// ActiveUserChecker is satisfied by the user service.
type ActiveUserChecker interface {
	EnsureActive(ctx context.Context, userID uuid.UUID) error
}

// RejectInactiveUsers refuses any request carrying a valid access token of a
// deactivated or deleted account, so the admin toggle takes effect before
// the token expires. Requests without a valid token pass through untouched.
func RejectInactiveUsers(jwtManager *jwt.Manager, checker ActiveUserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtManager)
		if !ok {
			c.Next()
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		if err := checker.EnsureActive(c.Request.Context(), userID); err != nil {
			response.FromError(c, err)
			return
		}
		c.Next()
	}
}
