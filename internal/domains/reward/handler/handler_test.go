package handler

import (
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

	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/domains/reward/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	service.Service
	includeInactive bool
}

func (s *stubService) List(_ context.Context, includeInactive bool) ([]model.Reward, error) {
	s.includeInactive = includeInactive
	return []model.Reward{}, nil
}

func (s *stubService) Redeem(context.Context, uuid.UUID, uuid.UUID) (*model.RedeemResponse, error) {
	return nil, ledgerModel.ErrInsufficientBalance
}

func setup(svc service.Service) (*gin.Engine, *jwt.Manager) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := gin.New()
	NewRewardHandler(svc).RegisterRoutes(r.Group("/api/v1"), m)
	return r, m
}

func bearer(t *testing.T, m *jwt.Manager, role shared.Role) string {
	t.Helper()
	token, err := m.GenerateAccessToken(uuid.NewString(), "u@example.com", role.String())
	require.NoError(t, err)
	return "Bearer " + token
}

func TestListHidesInactiveFromNonAdmins(t *testing.T) {
	svc := &stubService{}
	r, m := setup(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards?include_inactive=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.includeInactive)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rewards?include_inactive=true", nil)
	req.Header.Set("Authorization", bearer(t, m, shared.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.includeInactive)
}

func TestRedeemMapsInsufficientBalance(t *testing.T) {
	r, m := setup(&stubService{})
	path := "/api/v1/rewards/" + uuid.NewString() + "/redeem"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", bearer(t, m, shared.RoleCollector))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ledgerModel.ErrInsufficientBalance.Code, body.Error.Code)
}

func TestAdminWritesRequireAdmin(t *testing.T) {
	r, m := setup(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rewards/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", bearer(t, m, shared.RoleDonor))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
