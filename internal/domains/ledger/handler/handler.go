package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/domains/ledger/service"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/internal/shared/utils"
)

type LedgerHandler struct {
	service service.Service
}

func NewLedgerHandler(s service.Service) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// RegisterRoutes expects router to be behind AuthMiddleware.
func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/transactions")
	{
		routes.GET("/my-transactions", h.MyTransactions) // ?type=EARN&page=1&limit=20
		routes.GET("/balance", h.Balance)
	}
}

// RegisterAdminRoutes expects admin to be behind RequireRoles(ADMIN).
func (h *LedgerHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/users/:id/points", h.Adjust)
	admin.GET("/ledger/reconcile", h.Reconcile)
	admin.POST("/ledger/reconcile", h.EnqueueReconcile)
}

// MyTransactions godoc
// @Summary Points history of the current user
// @Tags Transactions
// @Router /transactions/my-transactions [get]
func (h *LedgerHandler) MyTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var txType *model.TransactionType
	if raw := c.Query("type"); raw != "" {
		t := model.TransactionType(raw)
		txType = &t
	}

	p := utils.ParsePagination(c)
	result, err := h.service.ListMyTransactions(c.Request.Context(), userID, txType, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Transactions retrieved", result, response.NewMeta(p.Page, p.Limit, result.Total))
}

func (h *LedgerHandler) Balance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Balance retrieved", gin.H{"balance": balance})
}

// Adjust godoc
// @Summary Manually credit or debit a user's points
// @Tags Admin
// @Router /admin/users/{id}/points [post]
func (h *LedgerHandler) Adjust(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	userID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.AdjustRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	entry, err := h.service.Adjust(c.Request.Context(), adminID, userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Points adjusted", entry)
}

// Reconcile godoc
// @Summary Compare cached balances with the ledger
// @Tags Admin
// @Router /admin/ledger/reconcile [get]
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	userID, ok := utils.ParseOptionalUUIDQuery(c, "user_id")
	if !ok {
		return
	}

	report, err := h.service.Reconcile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation completed", report)
}

func (h *LedgerHandler) EnqueueReconcile(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	userID, ok := utils.ParseOptionalUUIDQuery(c, "user_id")
	if !ok {
		return
	}

	result, err := h.service.EnqueueReconcile(c.Request.Context(), adminID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, "Reconciliation scheduled", result)
}
