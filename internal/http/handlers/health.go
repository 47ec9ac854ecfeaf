package handlers

import (
	"github.com/brightpods/admin-api/internal/http/response"
	"github.com/brightpods/admin-api/internal/models"

	"github.com/gin-gonic/gin"
)

// Health reports process and database liveness.
func (h *Handler) Health(c *gin.Context) {
	dbOK := false
	if models.DB != nil {
		if sqlDB, err := models.DB.DB(); err == nil {
			dbOK = sqlDB.Ping() == nil
		}
	}
	response.Success(c, gin.H{"db": dbOK})
}
