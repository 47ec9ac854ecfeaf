package handlers

import (
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the HTTP entry point for all endpoints.
type Handler struct {
	*provider.Container
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	requestID := ""
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			requestID = id
		}
	}
	return logger.SW(
		"request_id", requestID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}
