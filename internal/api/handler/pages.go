package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidgrid/internal/api/middleware"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/service"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	catalog   *service.CatalogService
	siteTitle string
}

// NewPageHandler creates a new page handler.
// Parameters:
//   - catalog: catalogue service instance.
//   - siteTitle: title shown in the page header.
// Returns:
//   - *PageHandler: initialized handler.
func NewPageHandler(catalog *service.CatalogService, siteTitle string) *PageHandler {
	return &PageHandler{catalog: catalog, siteTitle: siteTitle}
}

// Index handles GET / and lists the category pages.
func (h *PageHandler) Index(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"SiteTitle":  h.siteTitle,
		"Categories": categories,
	})
}

// Category handles GET /c/:category with optional q and topic filters.
func (h *PageHandler) Category(c *gin.Context) {
	f := service.Filter{
		Category: strings.TrimSpace(c.Param("category")),
		Topic:    c.Query("topic"),
		Query:    c.Query("q"),
	}
	ctx := logger.WithField(c.Request.Context(), logger.FieldCategory, f.Category)

	result, err := h.catalog.Query(ctx, f)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "category.html", gin.H{
		"SiteTitle": h.siteTitle,
		"Category":  f.Category,
		"Topic":     f.Topic,
		"Query":     f.Query,
		"Topics":    result.Topics,
		"Cards":     result.Cards,
		"Total":     result.Total,
	})
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong."
	if errors.Is(err, service.ErrUnavailable) {
		status = http.StatusServiceUnavailable
		message = "Could not load videos. Please try again later."
	}
	middleware.GetLogger(c).WithError(err).WithField("path", c.Request.URL.Path).Warn("Page render failed")
	c.HTML(status, "error.html", gin.H{
		"SiteTitle": h.siteTitle,
		"Message":   message,
	})
}
