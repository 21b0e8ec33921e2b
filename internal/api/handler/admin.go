package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/service"
)

// AdminHandler handles catalogue reloads.
type AdminHandler struct {
	catalog *service.CatalogService

	mu        sync.Mutex
	isRunning bool
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// ReloadResponse represents the reload API response.
type ReloadResponse struct {
	Message string          `json:"message"`
	Run     *domain.LoadRun `json:"run,omitempty"`
}

// Reload handles POST /api/v1/admin/reload.
// Only one reload runs at a time; a concurrent request gets 409.
func (h *AdminHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()

	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		logger.CtxWarn(ctx, "Reload rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "Reload is already running"})
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.isRunning = false
		h.mu.Unlock()
	}()

	logger.CtxInfo(ctx, "Reload requested: client_ip=%s", c.ClientIP())
	start := time.Now()
	run, err := h.catalog.Load(ctx)
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).Error(ctx, "Reload failed: error=%v", err)
		c.JSON(http.StatusBadGateway, ReloadResponse{Message: err.Error(), Run: run})
		return
	}

	c.JSON(http.StatusOK, ReloadResponse{Message: "Catalogue reloaded", Run: run})
}
