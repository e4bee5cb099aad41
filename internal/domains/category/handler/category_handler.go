package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/category"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/jwt"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes mounts the public catalog and the admin writes.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, jwtManager *jwt.Manager) {
	routes := router.Group("/waste-categories")
	{
		routes.GET("", middleware.OptionalAuth(jwtManager), h.List) // ?include_inactive=true (admin)
		routes.GET("/:id", h.GetByID)

		admin := routes.Group("", middleware.AuthMiddleware(jwtManager), middleware.RequireRoles(shared.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary List waste categories
// @Tags Waste Categories
// @Router /waste-categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && middleware.IsAdmin(c)

	items, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Waste categories retrieved", items)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Waste category retrieved", item)
}

// Create godoc
// @Summary Create a waste category (admin)
// @Tags Waste Categories
// @Router /waste-categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateRequest
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

	response.Success(c, http.StatusCreated, "Waste category created", item)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req category.UpdateRequest
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

	response.Success(c, http.StatusOK, "Waste category updated", item)
}

// Delete deactivates the category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Waste category deactivated", nil)
}
