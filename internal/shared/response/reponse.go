package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages,omitempty"`
}

// NewMeta computes total pages with ceiling division.
func NewMeta(page, limit int, total int64) *Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorStatus writes an error envelope. code defaults to the status text.
func ErrorStatus(c *gin.Context, statusCode int, message string, details interface{}) {
	ErrorWithCode(c, statusCode, http.StatusText(statusCode), message, details)
}

func ErrorWithCode(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Message: message,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps a service error to a response.
// Internal errors are logged and never echoed to the client.
func FromError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		ErrorWithCode(c, http.StatusBadRequest, apperr.KindValidation.String(), "Validation failed", vErrs)
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		ErrorWithCode(c, apperr.HTTPStatus(appErr), appErr.Code, appErr.Message, nil)
		return
	}

	logger.ErrorWithFields("Unhandled service error", err, map[string]interface{}{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
		"method":     c.Request.Method,
	})
	ErrorWithCode(c, http.StatusInternalServerError, apperr.ErrInternal.Code, apperr.ErrInternal.Message, nil)
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}
