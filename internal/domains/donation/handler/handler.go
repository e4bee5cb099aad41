package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/internal/domains/donation/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DonationHandler struct {
	service service.Service
}

func NewDonationHandler(s service.Service) *DonationHandler {
	return &DonationHandler{service: s}
}

// RegisterRoutes expects router to be behind AuthMiddleware.
func (h *DonationHandler) RegisterRoutes(router *gin.RouterGroup) {
	donor := middleware.RequireRoles(shared.RoleDonor)
	collector := middleware.RequireRoles(shared.RoleCollector)

	routes := router.Group("/donation-requests")
	{
		routes.GET("", middleware.RequireRoles(shared.RoleCollector, shared.RoleAdmin), h.Browse)
		routes.POST("", donor, h.Create)
		routes.GET("/my-requests", donor, h.MyRequests)
		routes.GET("/my-collections", collector, h.MyCollections)
		routes.GET("/stats", h.Stats)
		routes.GET("/:id", h.GetByID)
		routes.POST("/:id/accept", collector, h.Accept)
		routes.POST("/:id/cancel", middleware.RequireRoles(shared.RoleDonor, shared.RoleAdmin), h.Cancel)
		routes.POST("/:id/complete", collector, h.Complete)
	}
}

// RegisterAdminRoutes expects admin to be behind RequireRoles(ADMIN).
func (h *DonationHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/reports/collections/export", h.ExportCollections) // ?from=2024-01-01&to=2024-02-01
}

// Create godoc
// @Summary Post a pickup request
// @Tags Donation Requests
// @Router /donation-requests [post]
func (h *DonationHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Donation request created", d)
}

// Browse godoc
// @Summary Pending pickups for collectors, any status for admins
// @Tags Donation Requests
// @Router /donation-requests [get]
func (h *DonationHandler) Browse(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	q, ok := parseListQuery(c)
	if !ok {
		return
	}

	result, err := h.service.Browse(c.Request.Context(), actor, q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Donation requests retrieved", result.Requests,
		response.NewMeta(q.Page, q.Limit, result.Total))
}

func (h *DonationHandler) MyRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.ListMyRequests(c.Request.Context(), userID, statusQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Donation requests retrieved", result.Requests,
		response.NewMeta(p.Page, p.Limit, result.Total))
}

func (h *DonationHandler) MyCollections(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.ListMyCollections(c.Request.Context(), userID, statusQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Collections retrieved", result.Requests,
		response.NewMeta(p.Page, p.Limit, result.Total))
}

func (h *DonationHandler) GetByID(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Donation request retrieved", d)
}

func (h *DonationHandler) Stats(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}

// Accept godoc
// @Summary Accept a pending pickup
// @Tags Donation Requests
// @Router /donation-requests/{id}/accept [post]
func (h *DonationHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Accept(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Donation request accepted", d)
}

// Cancel godoc
// @Summary Cancel a pending or accepted pickup
// @Tags Donation Requests
// @Router /donation-requests/{id}/cancel [post]
func (h *DonationHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	// Body is optional
	var req model.CancelRequest
	if c.Request.ContentLength > 0 && !utils.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Cancel(c.Request.Context(), actor, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Donation request cancelled", d)
}

// Complete godoc
// @Summary Complete a pickup with the weighed amount and the donor's code
// @Tags Donation Requests
// @Router /donation-requests/{id}/complete [post]
func (h *DonationHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CompleteRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	d, err := h.service.Complete(c.Request.Context(), userID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Donation request completed", d)
}

// ExportCollections godoc
// @Summary Download completed collections as xlsx (admin)
// @Tags Admin
// @Router /admin/reports/collections/export [get]
func (h *DonationHandler) ExportCollections(c *gin.Context) {
	var filter model.ExportFilter
	for name, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid "+name+" date, expected YYYY-MM-DD")
			return
		}
		*dst = t
	}

	wb, err := h.service.ExportCompleted(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer func() {
		if err := wb.Close(); err != nil {
			logger.Warn("Failed to close workbook", map[string]interface{}{"error": err.Error()})
		}
	}()

	filename := fmt.Sprintf("collections_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := wb.Write(c.Writer); err != nil {
		logger.Error("Failed to write workbook", err)
	}
}

// ========================================
// QUERY PARSING
// ========================================

func statusQuery(c *gin.Context) *model.Status {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	s := model.Status(raw)
	return &s
}

func parseListQuery(c *gin.Context) (model.ListQuery, bool) {
	p := utils.ParsePagination(c)
	q := model.ListQuery{Status: statusQuery(c), Page: p.Page, Limit: p.Limit}

	categoryID, ok := utils.ParseOptionalUUIDQuery(c, "category_id")
	if !ok {
		return q, false
	}
	q.CategoryID = categoryID

	for name, dst := range map[string]**float64{"lat": &q.Lat, "lng": &q.Lng, "radius_km": &q.RadiusKm} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "Invalid "+name)
			return q, false
		}
		*dst = &v
	}
	return q, true
}
