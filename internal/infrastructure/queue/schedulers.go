package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"iptv-manager/internal/config"
	importJob "iptv-manager/internal/domains/clientimport/job"
	"iptv-manager/internal/shared"
	"iptv-manager/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers every periodic task.
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerExpireStaleImportsJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// Expire stale import jobs
// ================================================
// Uploads that were never submitted or abandoned stay pending forever
// unless swept.
func (s *Scheduler) registerExpireStaleImportsJob() error {
	payload, err := json.Marshal(importJob.ExpireStaleJobsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireStaleImports, payload)

	entryID, err := s.scheduler.Register(
		s.jobConfig.ExpireStaleImportsCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireStaleImports job", err)
		return fmt.Errorf("register %s: %w", shared.TypeExpireStaleImports, err)
	}

	logger.Info("Registered ExpireStaleImports", map[string]interface{}{
		"cron":     s.jobConfig.ExpireStaleImportsCron,
		"entry_id": entryID,
	})
	return nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
