package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/bizmanage/internal/telemetry"
)

const (
	EveryMinute         = "@every 1m"
	EveryHalfHour       = "@every 30m"
	DailyBeforeMidnight = "59 23 * * *"
)

type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
	Timeout  time.Duration
}

type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		log:  log,
	}
}

func (s *Scheduler) Add(job Job) error {
	if _, err := s.cron.AddFunc(job.Schedule, s.wrap(job)); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name, err)
	}
	return nil
}

func (s *Scheduler) wrap(job Job) func() {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		err := job.Run(ctx)
		telemetry.RecordJobRun(job.Name, err)

		ev := s.log.Debug()
		if err != nil {
			ev = s.log.Error().Err(err)
		}
		ev.Str("job", job.Name).Dur("took", time.Since(start)).Msg("job finished")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
