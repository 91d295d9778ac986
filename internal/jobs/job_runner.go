package jobs

import (
	"context"

	"passerelle-backend/internal/config"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	webinars service.WebinarService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(webinars service.WebinarService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		webinars: webinars,
		config:   cfg,
	}
}

// Config exposes the scheduler settings to the cron registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
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

// UpdateWebinarStatuses flips isLive/isCompleted on webinars whose window
// crossed the current wall clock since the last run.
func (jr *JobRunner) UpdateWebinarStatuses() {
	jr.runWithRecovery("update-webinar-statuses", func() {
		touched, err := jr.webinars.RefreshStatuses(context.Background())
		if err != nil {
			logger.Error("Webinar status sweep failed", "error", err)
			return
		}
		logger.Info("Webinar status sweep finished", "updated", touched)
	})
}
