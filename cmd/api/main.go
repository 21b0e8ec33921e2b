package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/vidgrid/internal/api"
	"github.com/timmy/vidgrid/internal/app"
	"github.com/timmy/vidgrid/internal/config"
	"github.com/timmy/vidgrid/internal/logger"
	"github.com/timmy/vidgrid/internal/repository"
	"github.com/timmy/vidgrid/internal/service"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	runRepo := repository.NewLoadRunRepository(db)

	chain := app.BuildSources(cfg)
	for _, src := range chain.Sources() {
		appLogger.WithField("source", src.GetSourceID()).Info("Data source enabled: " + src.GetDisplayName())
	}

	catalog := service.NewCatalogService(chain, runRepo, appLogger)

	// The first load runs before serving; a failure leaves pages in the "could not load" state.
	ctx := logger.SetComponent(appLogger.WithContext(context.Background()), "startup")
	if _, err := catalog.Load(ctx); err != nil {
		appLogger.WithError(err).Warn("Initial catalogue load failed")
	}

	router := api.SetupRouter(catalog, cfg, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
		_ = srv.Close()
	}

	appLogger.Info("Server exited")
}
