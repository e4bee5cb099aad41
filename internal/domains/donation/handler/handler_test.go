package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/internal/domains/donation/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	service.Service
	browsed model.ListQuery
	export  model.ExportFilter
}

func (s *stubService) Accept(context.Context, uuid.UUID, uuid.UUID) (*model.DonationRequest, error) {
	return nil, model.ErrInvalidTransition
}

func (s *stubService) Browse(_ context.Context, _ shared.Actor, q model.ListQuery) (*model.ListResponse, error) {
	s.browsed = q
	return &model.ListResponse{Requests: []model.DonationRequest{}, Total: 0}, nil
}

func (s *stubService) ExportCompleted(_ context.Context, f model.ExportFilter) (*excelize.File, error) {
	s.export = f
	return excelize.NewFile(), nil
}

type env struct {
	router *gin.Engine
	jwt    *jwt.Manager
}

func newEnv(svc service.Service) *env {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := gin.New()
	h := NewDonationHandler(svc)
	protected := r.Group("/api/v1", middleware.AuthMiddleware(m))
	h.RegisterRoutes(protected)
	h.RegisterAdminRoutes(protected.Group("/admin", middleware.RequireRoles(shared.RoleAdmin)))
	return &env{router: r, jwt: m}
}

func (e *env) do(t *testing.T, role shared.Role, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(uuid.NewString(), "u@example.com", role.String())
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestAcceptRoleAndConflict(t *testing.T) {
	e := newEnv(&stubService{})
	path := "/api/v1/donation-requests/" + uuid.NewString() + "/accept"

	assert.Equal(t, http.StatusForbidden, e.do(t, shared.RoleDonor, http.MethodPost, path, nil).Code)

	w := e.do(t, shared.RoleCollector, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DON002")
}

func TestLifecycleActionsArePostOnly(t *testing.T) {
	e := newEnv(&stubService{})
	id := uuid.NewString()

	for _, action := range []string{"accept", "cancel", "complete"} {
		path := "/api/v1/donation-requests/" + id + "/" + action
		assert.Equal(t, http.StatusNotFound, e.do(t, shared.RoleCollector, http.MethodPut, path, nil).Code, action)
	}
}

func TestBrowseParsesGeoQuery(t *testing.T) {
	svc := &stubService{}
	e := newEnv(svc)

	w := e.do(t, shared.RoleCollector, http.MethodGet, "/api/v1/donation-requests?lat=10.77&lng=106.7&radius_km=5&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.browsed.Lat)
	assert.Equal(t, 10.77, *svc.browsed.Lat)
	assert.Equal(t, 5.0, *svc.browsed.RadiusKm)
	assert.Equal(t, 2, svc.browsed.Page)

	w = e.do(t, shared.RoleCollector, http.MethodGet, "/api/v1/donation-requests?lat=north", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, shared.RoleDonor, http.MethodGet, "/api/v1/donation-requests", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportIsAdminOnlyAndStreamsXlsx(t *testing.T) {
	svc := &stubService{}
	e := newEnv(svc)
	path := "/api/v1/admin/reports/collections/export?from=2024-01-01&to=2024-02-01"

	assert.Equal(t, http.StatusForbidden, e.do(t, shared.RoleCollector, http.MethodGet, path, nil).Code)

	w := e.do(t, shared.RoleAdmin, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, 2024, svc.export.From.Year())
	assert.Equal(t, time.February, svc.export.To.Month())

	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = e.do(t, shared.RoleAdmin, http.MethodGet, "/api/v1/admin/reports/collections/export?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
