package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
	"gorm.io/gorm"
)

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	db      *gorm.DB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Check pings the database
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		dbStatus = "unreachable"
		response.ErrorWithData(c, http.StatusServiceUnavailable, "Database unreachable",
			gin.H{"status": "degraded", "database": dbStatus, "version": h.version})
		return
	}

	response.OK(c, "Service is healthy", gin.H{
		"status":   "ok",
		"database": dbStatus,
		"version":  h.version,
	})
}
