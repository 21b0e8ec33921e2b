package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidgrid/internal/service"
)

// VideoHandler serves the catalogue as JSON.
type VideoHandler struct {
	catalog *service.CatalogService
}

// NewVideoHandler creates a new video handler.
// Parameters:
//   - catalog: catalogue service instance.
// Returns:
//   - *VideoHandler: initialized handler.
func NewVideoHandler(catalog *service.CatalogService) *VideoHandler {
	return &VideoHandler{catalog: catalog}
}

// ListVideos handles GET /api/v1/videos.
// Query parameters: category, topic, q.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	var f service.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	result, err := h.catalog.Query(c.Request.Context(), f)
	if err != nil {
		writeError(c, "Failed to list videos", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCategories handles GET /api/v1/categories.
func (h *VideoHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to get categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// GetTopics handles GET /api/v1/topics.
func (h *VideoHandler) GetTopics(c *gin.Context) {
	category := c.Query("category")
	topics, err := h.catalog.Topics(c.Request.Context(), category)
	if err != nil {
		writeError(c, "Failed to get topics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"topics":   topics,
		"total":    len(topics),
	})
}

// GetStats handles GET /api/v1/stats.
func (h *VideoHandler) GetStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to get stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// writeError maps service errors to status codes.
func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": msg + ": " + err.Error()})
}
