// Package scheduler drives the two periodic reminder batches: a daily
// overdue scan at a fixed wall-clock time and a fixed-rate flush of pending
// reminders. The scheduler owns only the timing; the batch semantics (and
// their per-record failure tolerance) live in the reminder service. A
// panicking or failing batch run never stops the loops.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solayof/school-inventory-backend/internal/observability"
)

// ReminderRunner is the slice of the reminder service the scheduler drives.
type ReminderRunner interface {
	ProcessOverdueReminders(ctx context.Context) error
	SendDueReminders(ctx context.Context) error
}

// Scheduler runs the overdue scan and the pending flush until its context
// is cancelled.
type Scheduler struct {
	Reminders ReminderRunner

	// DailyAt is the UTC wall-clock time ("15:04" layout) of the overdue
	// scan. Defaults to 09:00.
	DailyAt string

	// FlushEvery is the fixed-rate interval of the pending flush.
	// Defaults to one hour.
	FlushEvery time.Duration
}

// Run blocks, operating both loops until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	flush := s.FlushEvery
	if flush <= 0 {
		flush = time.Hour
	}

	log.Info().
		Str("daily_at", s.dailyAt()).
		Dur("flush_every", flush).
		Msg("reminder scheduler started")

	go s.runDaily(ctx)

	ticker := time.NewTicker(flush)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runJob(ctx, "pending_flush", s.Reminders.SendDueReminders)
		}
	}
}

// runDaily fires the overdue scan at the configured wall-clock time, then
// every 24h after.
func (s *Scheduler) runDaily(ctx context.Context) {
	timer := time.NewTimer(untilNext(s.dailyAt(), time.Now().UTC()))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runJob(ctx, "overdue_scan", s.Reminders.ProcessOverdueReminders)
			timer.Reset(untilNext(s.dailyAt(), time.Now().UTC()))
		}
	}
}

// runJob executes one batch entry point, containing panics and logging the
// outcome. Batch errors are an audit concern, never a loop-fatal one.
func (s *Scheduler) runJob(ctx context.Context, name string, fn func(context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("job", name).Msg("scheduled job panicked")
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
	} else {
		log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job completed")
	}
	observability.ObserveSchedulerRun(name)
}

func (s *Scheduler) dailyAt() string {
	if _, err := time.Parse("15:04", s.DailyAt); err != nil {
		return "09:00"
	}
	return s.DailyAt
}

// untilNext returns the duration from now to the next occurrence of the
// given UTC wall-clock time ("15:04" layout). A time equal to now schedules
// for tomorrow.
func untilNext(at string, now time.Time) time.Duration {
	t, err := time.Parse("15:04", at)
	if err != nil {
		t, _ = time.Parse("15:04", "09:00")
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
