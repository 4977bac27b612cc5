package tasks

import (
	"fmt"

	"blink-scheduler/core/config"
	"blink-scheduler/core/logger"

	"github.com/hibiken/asynq"
)

// NewScheduler registers the periodic fleet sweeps: calendar
// reconciliation and workload analytics, on the cron specs from config.
func NewScheduler(cfg config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(cfg.Redis), nil)

	if _, err := scheduler.Register(cfg.Worker.SyncSpec, NewCalendarSyncAllTask()); err != nil {
		return nil, fmt.Errorf("register calendar sync sweep: %w", err)
	}
	if _, err := scheduler.Register(cfg.Worker.AnalyticsSpec, NewWorkloadAnalyzeAllTask()); err != nil {
		return nil, fmt.Errorf("register workload analytics sweep: %w", err)
	}

	logger.Info("Scheduler:Registered",
		"sync_spec", cfg.Worker.SyncSpec,
		"analytics_spec", cfg.Worker.AnalyticsSpec,
	)
	return scheduler, nil
}
