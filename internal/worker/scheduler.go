package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aqllidala/fieldwatch/internal/config"
	"github.com/hibiken/asynq"
)

// StartScheduler creates and starts an Asynq Scheduler emitting the
// periodic alert scan task. Returns a stop function for graceful
// shutdown.
func StartScheduler(cfg *config.Config, logger *slog.Logger) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	// Register the periodic alert scan task
	task := asynq.NewTask(
		TaskScanAlerts,
		nil, // empty payload - handler queries the store directly
		asynq.MaxRetry(3),
		asynq.Timeout(2*cfg.ScanInterval),
		asynq.Retention(24*time.Hour),
		asynq.Unique(cfg.ScanInterval), // prevent overlap if a cycle runs long
	)

	schedule := fmt.Sprintf("@every %s", cfg.ScanInterval)
	entryID, err := scheduler.Register(schedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register alert scan schedule: %w", err)
	}

	// Start scheduler (non-blocking)
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info(
		"Scheduler started",
		"schedule", schedule,
		"entry_id", entryID,
	)

	// Return shutdown function
	return func() { scheduler.Shutdown() }, nil
}
