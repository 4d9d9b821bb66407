package handlers

import (
	"net/http"
	"strconv"

	"bikecare/internal/backend"
	intconfig "bikecare/internal/config"
	"bikecare/internal/http/middleware"
	"bikecare/internal/payment"
	"bikecare/internal/session"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the wired collaborators behind the HTTP surface.
type Handlers struct {
	Env     intconfig.Env
	Backend *backend.Client
	Store   session.Store
	Orch    *payment.Orchestrator
}

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// pathID parses a positive int64 path parameter; 0 means invalid.
func pathID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
