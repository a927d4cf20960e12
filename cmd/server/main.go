package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/abtest"
	"github.com/wecar/marketing-platform/internal/api"
	"github.com/wecar/marketing-platform/internal/brandvoice"
	"github.com/wecar/marketing-platform/internal/config"
	"github.com/wecar/marketing-platform/internal/digest"
	"github.com/wecar/marketing-platform/internal/market"
	"github.com/wecar/marketing-platform/internal/notifications"
	"github.com/wecar/marketing-platform/internal/recommend"
	"github.com/wecar/marketing-platform/internal/scheduler"
	"github.com/wecar/marketing-platform/internal/seo"
	"github.com/wecar/marketing-platform/internal/storage"
	"github.com/wecar/marketing-platform/internal/store"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting marketing platform backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := pgxpool.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	trainingStore := store.NewPostgresStore(db)
	if err := trainingStore.EnsureSchema(ctx); err != nil {
		logrus.Fatalf("Failed to prepare database schema: %v", err)
	}

	// Initialize core services
	seoAnalyzer := seo.NewAnalyzer()
	brandVoiceAnalyzer := brandvoice.NewAnalyzer(seoAnalyzer)
	recommender := recommend.NewService(trainingStore, seoAnalyzer)
	abTestService := abtest.NewService()
	marketService := market.NewService()

	// Initialize the digest pipeline when enabled
	var digestService *digest.Service
	var schedulerService *scheduler.Service
	if cfg.EnableDigest {
		archive, err := storage.NewAzureArchive(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize digest archive: %v", err)
		}

		notificationService := notifications.NewService(cfg)
		digestService = digest.NewService(cfg, trainingStore, abTestService, archive, notificationService)

		schedulerService = scheduler.NewService(cfg, digestService)
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	}

	// Set up HTTP server
	apiServer := api.NewServer(brandVoiceAnalyzer, recommender, abTestService, marketService, trainingStore, digestService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
