package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/address"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
)

type AddressHandler struct {
	service address.Service
}

func NewAddressHandler(service address.Service) *AddressHandler {
	return &AddressHandler{service: service}
}

// RegisterRoutes expects router to already require authentication.
func (h *AddressHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/addresses")
	{
		routes.GET("", h.List)
		routes.POST("", h.Create)
		routes.GET("/:id", h.Get)
		routes.PUT("/:id", h.Update)
		routes.DELETE("/:id", h.Delete)
		routes.PUT("/:id/primary", h.SetPrimary)
	}
}

// Create godoc
// @Summary Add a pickup address
// @Tags Addresses
// @Router /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req address.CreateRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Address created", a)
}

// List godoc
// @Summary List my addresses, primary first
// @Tags Addresses
// @Router /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	items, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Addresses retrieved", items)
}

func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetOwned(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address retrieved", a)
}

func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req address.UpdateRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address updated", a)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address deleted", nil)
}

// SetPrimary godoc
// @Summary Make an address the primary pickup location
// @Tags Addresses
// @Router /addresses/{id}/primary [put]
func (h *AddressHandler) SetPrimary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.SetPrimary(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Primary address updated", a)
}
