package handlers

import (
	"context"
	"net/http"
	"time"

	"interviewhub/internal/db"
	"interviewhub/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	base
	db *gorm.DB
}

func NewHealthHandler(log *logger.Logger, gdb *gorm.DB) *HealthHandler {
	return &HealthHandler{base: newBase(log, "HealthHandler", false), db: gdb}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, h.db); err != nil {
		h.log.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
