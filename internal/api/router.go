package api

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidgrid/internal/api/handler"
	"github.com/timmy/vidgrid/internal/api/middleware"
	"github.com/timmy/vidgrid/internal/config"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(templateFS, "templates/*.html"))
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	catalog *service.CatalogService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.SetHTMLTemplate(Templates())

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	pageHandler := handler.NewPageHandler(catalog, cfg.Server.SiteTitle)
	videoHandler := handler.NewVideoHandler(catalog)
	adminHandler := handler.NewAdminHandler(catalog)

	r.GET("/health", healthHandler.Health)

	// Pages
	r.GET("/", pageHandler.Index)
	r.GET("/c/:category", pageHandler.Category)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/videos", videoHandler.ListVideos)
		v1.GET("/categories", videoHandler.GetCategories)
		v1.GET("/topics", videoHandler.GetTopics)
		v1.GET("/stats", videoHandler.GetStats)

		admin := v1.Group("/admin",
			middleware.AdminAuth(cfg.Server.AdminToken),
			middleware.RateLimit(cfg.Server.Reload.PerMinute, cfg.Server.Reload.Burst),
		)
		admin.POST("/reload", adminHandler.Reload)
	}

	return r
}
