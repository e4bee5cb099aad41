package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recycle-rewards-backend/internal/shared/response"
)

// ParseUUIDParam reads a UUID path param. On failure it writes 400 and returns false.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// ParseOptionalUUIDQuery returns nil for an absent query param.
func ParseOptionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return nil, false
	}
	return &id, true
}

// BindJSON binds the body. On failure it writes 400 and returns false.
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.ErrorStatus(c, http.StatusBadRequest, "Invalid request body", map[string]string{"error": err.Error()})
		return false
	}
	return true
}
