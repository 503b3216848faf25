package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ltvreport/internal/service"
)

type HealthHandler struct {
	DB    *gorm.DB
	Store *service.DataStore
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ready reports whether the service can answer report queries. The
// snapshot is the gate: a reachable database with no loaded snapshot is
// not ready, while a loaded snapshot with the database down still is
// (the fallback source fed it).
func (h *HealthHandler) ready(c *gin.Context) {
	if h.Store == nil || !h.Store.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "snapshot_missing"})
		return
	}
	db := "ok"
	if h.DB == nil {
		db = "missing"
	} else if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
		db = "unreachable"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "db": db})
}
