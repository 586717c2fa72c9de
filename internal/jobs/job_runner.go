package jobs

import (
	"github.com/DaniyalGhauri/DriveSmart/internal/config"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository/postgres"
	"github.com/DaniyalGhauri/DriveSmart/internal/service"
)

// JobRunner coordinates all scheduled maintenance jobs.
type JobRunner struct {
	store  *postgres.Store
	outbox service.OutboxService
	config *config.Config
}

func NewJobRunner(store *postgres.Store, outbox service.OutboxService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:  store,
		outbox: outbox,
		config: cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery so one bad run
// never takes the scheduler down.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every nightly job once, for manual execution.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ReconcileAvailability()
	jr.ReportElapsedUnpaid()
	jr.DispatchOutbox()
}
