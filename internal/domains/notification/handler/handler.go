package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
)

// =====================================================
// NOTIFICATION HANDLER
// =====================================================
type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// RegisterRoutes expects router to be behind AuthMiddleware.
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/notifications")
	{
		routes.GET("", h.List)                         // GET /notifications?page=1&limit=20&unread_only=true
		routes.GET("/unread-count", h.UnreadCount)     // GET /notifications/unread-count
		routes.PATCH("/:id/read", h.MarkAsRead)        // PATCH /notifications/:id/read
		routes.POST("/mark-all-read", h.MarkAllAsRead) // POST /notifications/mark-all-read
		routes.DELETE("/:id", h.Delete)                // DELETE /notifications/:id
	}
}

// List godoc
// @Summary List my notifications
// @Tags Notifications
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.List(c.Request.Context(), model.ListRequest{
		UserID:     userID,
		UnreadOnly: c.Query("unread_only") == "true",
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Notifications retrieved", result, response.NewMeta(p.Page, p.Limit, result.Total))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Unread count retrieved", model.UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.service.MarkAsRead(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Notification marked as read", n)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	updated, err := h.service.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "All notifications marked as read", model.MarkAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Notification deleted", nil)
}
