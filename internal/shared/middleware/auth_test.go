package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())

	protected := r.Group("/", AuthMiddleware(m))
	protected.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.String(http.StatusOK, id.String())
	})
	protected.GET("/admin", RequireRoles(shared.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	protected.GET("/collect", RequireRoles(shared.RoleCollector, shared.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func httpDo(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := newTestRouter(m)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID.String(), "d@example.com", string(shared.RoleDonor))
	require.NoError(t, err)

	w := httpDo(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	assert.Equal(t, http.StatusUnauthorized, httpDo(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, httpDo(r, "/me", "garbage").Code)

	refresh, err := m.GenerateRefreshToken(userID.String())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpDo(r, "/me", refresh).Code)
}

func TestRequireRoles(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := newTestRouter(m)

	tokenFor := func(role shared.Role) string {
		tok, err := m.GenerateAccessToken(uuid.NewString(), "x@example.com", string(role))
		require.NoError(t, err)
		return tok
	}

	assert.Equal(t, http.StatusForbidden, httpDo(r, "/admin", tokenFor(shared.RoleDonor)).Code)
	assert.Equal(t, http.StatusOK, httpDo(r, "/admin", tokenFor(shared.RoleAdmin)).Code)
	assert.Equal(t, http.StatusOK, httpDo(r, "/collect", tokenFor(shared.RoleCollector)).Code)
	assert.Equal(t, http.StatusForbidden, httpDo(r, "/collect", tokenFor(shared.RoleDonor)).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewIPRateLimiter(2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, httpDo(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, httpDo(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, httpDo(r, "/", "").Code)
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(ClientIPMiddleware(), RateLimit(NewIPRateLimiter(2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRateLimitHonorsForwardedForFromTrustedProxy(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies([]string{"192.0.2.0/24"}))
	r.Use(ClientIPMiddleware(), RateLimit(NewIPRateLimiter(1)))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, clientIP(c)) })

	from := func(client string) *httptest.ResponseRecorder {
		// httptest requests arrive from 192.0.2.1
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := from("198.51.100.7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "198.51.100.7", w.Body.String())
	assert.Equal(t, http.StatusTooManyRequests, from("198.51.100.7").Code)
	assert.Equal(t, http.StatusOK, from("198.51.100.8").Code)
}

type inactiveUsers map[uuid.UUID]bool

func (u inactiveUsers) EnsureActive(_ context.Context, id uuid.UUID) error {
	if u[id] {
		return apperr.New(apperr.KindForbidden, "USR004", "User account is inactive")
	}
	return nil
}

func TestRejectInactiveUsers(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	banned := uuid.New()

	r := gin.New()
	r.Use(RejectInactiveUsers(m, inactiveUsers{banned: true}))
	r.GET("/catalog", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/me", AuthMiddleware(m), func(c *gin.Context) { c.Status(http.StatusOK) })

	bannedToken, err := m.GenerateAccessToken(banned.String(), "gone@example.com", "DONOR")
	require.NoError(t, err)
	activeToken, err := m.GenerateAccessToken(uuid.NewString(), "ok@example.com", "DONOR")
	require.NoError(t, err)

	w := httpDo(r, "/me", bannedToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "USR004")
	assert.Equal(t, http.StatusForbidden, httpDo(r, "/catalog", bannedToken).Code)

	assert.Equal(t, http.StatusOK, httpDo(r, "/me", activeToken).Code)
	assert.Equal(t, http.StatusOK, httpDo(r, "/catalog", "").Code)
	assert.Equal(t, http.StatusUnauthorized, httpDo(r, "/me", "garbage").Code)
}

func TestOptionalAuth(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := gin.New()
	r.GET("/catalog", OptionalAuth(m), func(c *gin.Context) {
		if IsAdmin(c) {
			c.String(http.StatusOK, "admin")
			return
		}
		c.String(http.StatusOK, "public")
	})

	assert.Equal(t, "public", httpDo(r, "/catalog", "").Body.String())
	assert.Equal(t, "public", httpDo(r, "/catalog", "garbage").Body.String())

	token, err := m.GenerateAccessToken(uuid.NewString(), "a@example.com", string(shared.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "admin", httpDo(r, "/catalog", token).Body.String())
}
