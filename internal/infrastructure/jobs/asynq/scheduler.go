package asynq

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/infrastructure/jobs/tasks"
)

// Scheduler wraps asynq.Scheduler to enqueue the license expiration
// sweep (and any other periodic task) on a cron-style spec. It is a
// separate process role from Server: Server drains the queue, Scheduler
// fills it on a timer.
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    zerolog.Logger
}

// NewScheduler builds a Scheduler against the same Redis connection the
// Client and Server use.
func NewScheduler(cfg ClientConfig) *Scheduler {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(cfg.Logger),
	})

	return &Scheduler{scheduler: scheduler, logger: cfg.Logger}
}

// RegisterLicenseExpireSweep registers the sweep to run on cronSpec
// (e.g. "@every 1h").
func (s *Scheduler) RegisterLicenseExpireSweep(cronSpec string) error {
	entryID, err := s.scheduler.Register(cronSpec, tasks.NewLicenseExpireSweepTask())
	if err != nil {
		return fmt.Errorf("register license expire sweep: %w", err)
	}
	s.logger.Info().Str("entry_id", entryID).Str("cron", cronSpec).Msg("registered license expiration sweep")
	return nil
}

// Run starts the scheduler loop. Blocking; run in a goroutine.
func (s *Scheduler) Run() error {
	s.logger.Info().Msg("starting asynq scheduler")
	if err := s.scheduler.Run(); err != nil {
		return fmt.Errorf("asynq scheduler run: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler loop.
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
	s.logger.Info().Msg("asynq scheduler shutdown complete")
}
