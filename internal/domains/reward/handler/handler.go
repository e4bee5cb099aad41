package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/domains/reward/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/jwt"
)

type RewardHandler struct {
	service service.Service
}

func NewRewardHandler(s service.Service) *RewardHandler {
	return &RewardHandler{service: s}
}

func (h *RewardHandler) RegisterRoutes(router *gin.RouterGroup, jwtManager *jwt.Manager) {
	routes := router.Group("/rewards")
	{
		routes.GET("", middleware.OptionalAuth(jwtManager), h.List) // ?include_inactive=true (admin)
		routes.GET("/:id", h.GetByID)

		authed := routes.Group("", middleware.AuthMiddleware(jwtManager))
		authed.GET("/my-redemptions", h.MyRedemptions)
		authed.POST("/:id/redeem", h.Redeem)

		admin := authed.Group("", middleware.RequireRoles(shared.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary List rewards
// @Tags Rewards
// @Router /rewards [get]
func (h *RewardHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && middleware.IsAdmin(c)

	items, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Rewards retrieved", items)
}

func (h *RewardHandler) GetByID(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reward retrieved", item)
}

// Redeem godoc
// @Summary Spend points on one unit of a reward
// @Tags Rewards
// @Security BearerAuth
// @Router /rewards/{id}/redeem [post]
func (h *RewardHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Redeem(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Reward redeemed", result)
}

func (h *RewardHandler) MyRedemptions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.service.MyRedemptions(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Redemptions retrieved", result.Redemptions,
		response.NewMeta(p.Page, p.Limit, result.Total))
}

func (h *RewardHandler) Create(c *gin.Context) {
	var req model.CreateRewardRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Reward created", item)
}

func (h *RewardHandler) Update(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateRewardRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reward updated", item)
}

// Delete deactivates the reward.
func (h *RewardHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reward deactivated", nil)
}
