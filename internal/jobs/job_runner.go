package jobs

import (
	"gearroom-backend/internal/config"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
	"gearroom-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	reservations repository.ReservationRepository
	users        repository.UserRepository
	email        service.EmailService
	config       *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(reservations repository.ReservationRepository, users repository.UserRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		reservations: reservations,
		users:        users,
		email:        email,
		config:       cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
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
