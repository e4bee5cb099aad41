package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubService answers register and stats; everything else is unused here.
type stubService struct {
	user.Service
	registered user.RegisterRequest
}

func (s *stubService) Register(_ context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	s.registered = req
	return &user.AuthResponse{
		User:         user.UserDTO{ID: uuid.New(), Email: req.Email, Role: req.Role},
		Token:        "access",
		RefreshToken: "refresh",
	}, nil
}

func (s *stubService) AdminStats(context.Context) (*user.AdminStats, error) {
	return &user.AdminStats{PointsIssued: 10}, nil
}

func newRouter(svc user.Service, m *jwt.Manager) *gin.Engine {
	r := gin.New()
	h := NewUserHandler(svc, false)
	api := r.Group("/api/v1")
	h.RegisterAuthRoutes(api.Group("/auth"))
	protected := api.Group("", middleware.AuthMiddleware(m))
	h.RegisterRoutes(protected)
	h.RegisterAdminRoutes(protected.Group("/admin", middleware.RequireRoles(shared.RoleAdmin)))
	return r
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, jwt.NewManager("s", time.Hour, time.Hour))

	body, _ := json.Marshal(map[string]string{
		"email":    "donor@example.com",
		"password": "recycle123",
		"fullName": "Donor",
		"role":     "DONOR",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, shared.RoleDonor, svc.registered.Role)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "access", env.Data.Token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "refresh_token=refresh")
}

func TestRegisterEndpointValidation(t *testing.T) {
	r := newRouter(&stubService{}, jwt.NewManager("s", time.Hour, time.Hour))

	body := []byte(`{"email":"not-an-email","password":"short","fullName":"D","role":"ADMIN"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestAdminStatsRequiresAdmin(t *testing.T) {
	m := jwt.NewManager("s", time.Hour, time.Hour)
	r := newRouter(&stubService{}, m)

	call := func(role shared.Role) int {
		token, err := m.GenerateAccessToken(uuid.NewString(), "x@example.com", role.String())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, call(shared.RoleDonor))
	assert.Equal(t, http.StatusOK, call(shared.RoleAdmin))
}
