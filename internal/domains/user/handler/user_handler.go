package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
)

const refreshCookie = "refresh_token"

// UserHandler serves /auth, /users and the admin user endpoints.
type UserHandler struct {
	service      user.Service
	secureCookie bool
}

func NewUserHandler(service user.Service, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      service,
		secureCookie: secureCookie,
	}
}

// RegisterAuthRoutes mounts the public auth endpoints.
func (h *UserHandler) RegisterAuthRoutes(auth *gin.RouterGroup) {
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.RefreshToken)
}

// RegisterRoutes expects router to be behind AuthMiddleware.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.GET("", middleware.RequireRoles(shared.RoleAdmin), h.ListUsers)
		users.PATCH("/:id/toggle-status", middleware.RequireRoles(shared.RoleAdmin), h.ToggleStatus)
	}
}

// RegisterAdminRoutes expects admin to be behind RequireRoles(ADMIN).
func (h *UserHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/stats", h.AdminStats)
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register godoc
// @Summary      Register a donor or collector
// @Tags         Authentication
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.Header("Location", "/api/v1/users/"+result.User.ID.String())
	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary      Authenticate and return JWT tokens
// @Tags         Authentication
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// RefreshToken reads the token from the body, falling back to the cookie.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookie); err == nil {
			req.RefreshToken = cookie
		}
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.Success(c, http.StatusOK, "Token refreshed", result)
}

func (h *UserHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, 7*24*3600, "/api/v1/auth", "", h.secureCookie, true)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile godoc
// @Summary      Current user profile with live points balance
// @Tags         Users
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req user.UpdateProfileRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// ListUsers godoc
// @Summary      List users (admin)
// @Tags         Admin
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := utils.ParsePagination(c)
	req := user.ListUsersRequest{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	if raw := c.Query("role"); raw != "" {
		role := shared.Role(raw)
		req.Role = &role
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "is_active must be true or false")
			return
		}
		req.IsActive = &active
	}

	result, err := h.service.ListUsers(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Users retrieved", result.Users, response.NewMeta(p.Page, p.Limit, result.Total))
}

// ToggleStatus godoc
// @Summary      Activate or deactivate a user (admin)
// @Tags         Admin
// @Router       /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	userID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	updated, err := h.service.ToggleStatus(c.Request.Context(), adminID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	message := "User deactivated"
	if updated.IsActive {
		message = "User activated"
	}
	response.Success(c, http.StatusOK, message, updated)
}

func (h *UserHandler) AdminStats(c *gin.Context) {
	stats, err := h.service.AdminStats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Statistics retrieved", stats)
}
