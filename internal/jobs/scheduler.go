// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work. Schedule is a standard five-field cron
// expression; an empty schedule registers the job for on-demand runs only.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
	log     zerolog.Logger
}

// NewScheduler bounds every run by timeout.
func NewScheduler(timeout time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		timeout: timeout,
		log:     log.With().Str("component", "jobs").Logger(),
	}
}

func (s *Scheduler) Register(job Job) error {
	if job.Schedule() == "" {
		s.jobs = append(s.jobs, job)
		s.log.Info().Str("job", job.Name()).Msg("registered on-demand job")
		return nil
	}
	if _, err := s.cron.AddFunc(job.Schedule(), func() { _ = s.execute(context.Background(), job) }); err != nil {
		return err
	}
	s.jobs = append(s.jobs, job)
	s.log.Info().Str("job", job.Name()).Str("schedule", job.Schedule()).Msg("job scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("jobs still running at shutdown")
	}
}

// RunNow executes a registered job synchronously. It reports false when no
// job has that name.
func (s *Scheduler) RunNow(ctx context.Context, name string) (bool, error) {
	for _, job := range s.jobs {
		if job.Name() == name {
			return true, s.execute(ctx, job)
		}
	}
	return false, nil
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	event := s.log.Info()
	if err != nil {
		event = s.log.Error().Err(err)
	}
	event.Str("job", job.Name()).Dur("took", time.Since(start)).Msg("job finished")
	return err
}
