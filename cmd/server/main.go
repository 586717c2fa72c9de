package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "github.com/DaniyalGhauri/DriveSmart/internal/api/http"
	"github.com/DaniyalGhauri/DriveSmart/internal/config"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository/postgres"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
	"github.com/DaniyalGhauri/DriveSmart/internal/service"
	"github.com/DaniyalGhauri/DriveSmart/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveSmart server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiryMins, cfg.Auth.RefreshTokenExpiryMins)

	var firebaseVerifier *security.FirebaseVerifier
	if cfg.Auth.FirebaseCredentialsFile != "" {
		firebaseVerifier, err = security.NewFirebaseVerifier(context.Background(), cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize firebase verifier", "error", err)
			log.Fatalf("Failed to initialize firebase verifier: %v", err)
		}
		logger.Info("Firebase token verification enabled")
	}

	var fileStore storage.Storage
	if cfg.Storage.Type == "" || cfg.Storage.Type == "mock" {
		logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
		fileStore, err = storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	authSvc := service.NewAuthService(store.UserRepository, store.CompanyRepository, tokenManager)
	catalogSvc := service.NewCatalogService(store.CarRepository, store.CompanyRepository)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.CarRepository, store.CompanyRepository, store.UserRepository, store.NotificationRepository)
	reportingSvc := service.NewReportingService(store.ReportRepository, store.CompanyRepository, cfg.Platform.FeePercent)
	adminSvc := service.NewAdminService(store.CompanyRepository)

	authGuard := httpapi.NewAuthMiddleware(tokenManager, firebaseVerifier, authSvc)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:      httpapi.NewAuthHandler(authSvc),
		Catalog:   httpapi.NewCatalogHandler(catalogSvc),
		Booking:   httpapi.NewBookingHandler(bookingSvc),
		Admin:     httpapi.NewAdminHandler(adminSvc, reportingSvc),
		Report:    httpapi.NewReportHandler(reportingSvc),
		Files:     httpapi.NewFileHandler(fileStore, cfg.Storage.MaxFileSizeMB, cfg.Storage.AllowedTypes),
		AuthGuard: authGuard,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
