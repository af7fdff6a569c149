// Package schedule runs a job once a day at a fixed wall-clock time.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Job is the work executed on each tick.
type Job func(ctx context.Context)

// Scheduler fires its job daily at hour:minute in the configured timezone.
type Scheduler struct {
	hour   int
	minute int
	loc    *time.Location
	job    Job
	logger *slog.Logger
}

func New(hour, minute int, timezone string, job Job, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		hour:   hour,
		minute: minute,
		loc:    loc,
		job:    job,
		logger: logger.With("component", "scheduler"),
	}, nil
}

// Start blocks until ctx is done, running the job at each scheduled time.
// The job runs inline, so a run that outlasts a day simply delays the next
// one rather than stacking up.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		next := s.nextRun(time.Now().In(s.loc))
		s.logger.Info("next run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			s.logger.Info("scheduled run starting")
			s.runJob(ctx)
		}
	}
}

// runJob keeps a panicking job from taking the scheduler down with it.
func (s *Scheduler) runJob(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled job panicked", "panic", r)
		}
	}()
	s.job(ctx)
}

// nextRun returns the first hour:minute after now in the scheduler's
// timezone, rolling to the next day when today's slot already passed.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
