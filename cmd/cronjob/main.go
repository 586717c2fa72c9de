package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/DaniyalGhauri/DriveSmart/internal/config"
	"github.com/DaniyalGhauri/DriveSmart/internal/jobs"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository/postgres"
	"github.com/DaniyalGhauri/DriveSmart/internal/scheduler"
	"github.com/DaniyalGhauri/DriveSmart/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-availability', 'all-nightly')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveSmart cronjob runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	emailDispatcher := service.NewEmailDispatcher(
		cfg.Notification.SendGridAPIKey,
		cfg.Notification.FromEmail,
		cfg.Notification.FromName,
	)
	whatsappDispatcher := service.NewWhatsAppDispatcher(
		cfg.Notification.WhatsAppAPIURL,
		cfg.Notification.WhatsAppAPIKey,
	)
	outboxSvc := service.NewOutboxService(
		store.NotificationRepository,
		cfg.Notification.MaxAttempts,
		cfg.Notification.DispatchBatch,
		emailDispatcher,
		whatsappDispatcher,
	)

	jobRunner := jobs.NewJobRunner(store, outboxSvc, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reconcile-availability":
		jobRunner.ReconcileAvailability()
	case "dispatch-outbox":
		jobRunner.DispatchOutbox()
	case "report-elapsed-unpaid":
		jobRunner.ReportElapsedUnpaid()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reconcile-availability\n")
		fmt.Printf("  - dispatch-outbox\n")
		fmt.Printf("  - report-elapsed-unpaid\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
