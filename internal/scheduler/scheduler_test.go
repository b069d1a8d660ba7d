package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRunner struct {
	overdue int32
	flushes int32

	flushErr   error
	flushPanic bool
}

func (f *fakeRunner) ProcessOverdueReminders(ctx context.Context) error {
	atomic.AddInt32(&f.overdue, 1)
	return nil
}

func (f *fakeRunner) SendDueReminders(ctx context.Context) error {
	atomic.AddInt32(&f.flushes, 1)
	if f.flushPanic {
		panic("boom")
	}
	return f.flushErr
}

func TestRun_FlushTicksUntilCancelled(t *testing.T) {
	r := &fakeRunner{}
	s := &Scheduler{Reminders: r, FlushEvery: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&r.flushes) < 3 {
		select {
		case <-deadline:
			t.Fatalf("flushes = %d, want >= 3", atomic.LoadInt32(&r.flushes))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop on cancellation")
	}
}

func TestRun_SurvivesErrorsAndPanics(t *testing.T) {
	for _, tc := range []struct {
		name string
		r    *fakeRunner
	}{
		{"error", &fakeRunner{flushErr: errors.New("db gone")}},
		{"panic", &fakeRunner{flushPanic: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &Scheduler{Reminders: tc.r, FlushEvery: 10 * time.Millisecond}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go s.Run(ctx)

			deadline := time.After(2 * time.Second)
			for atomic.LoadInt32(&tc.r.flushes) < 2 {
				select {
				case <-deadline:
					t.Fatalf("loop died after first failure: flushes = %d", atomic.LoadInt32(&tc.r.flushes))
				case <-time.After(5 * time.Millisecond):
				}
			}
		})
	}
}

func TestUntilNext(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if got, want := untilNext("09:00", now), time.Hour; got != want {
		t.Fatalf("later today: got %v, want %v", got, want)
	}
	if got, want := untilNext("07:30", now), 23*time.Hour+30*time.Minute; got != want {
		t.Fatalf("earlier today rolls to tomorrow: got %v, want %v", got, want)
	}
	if got, want := untilNext("08:00", now), 24*time.Hour; got != want {
		t.Fatalf("exactly now rolls to tomorrow: got %v, want %v", got, want)
	}
	// Unparseable values fall back to the 09:00 default.
	if got, want := untilNext("not-a-time", now), time.Hour; got != want {
		t.Fatalf("fallback: got %v, want %v", got, want)
	}
}

func TestDailyAtFallback(t *testing.T) {
	s := &Scheduler{DailyAt: "25:99"}
	if got := s.dailyAt(); got != "09:00" {
		t.Fatalf("dailyAt() = %q, want default", got)
	}
	s.DailyAt = "18:30"
	if got := s.dailyAt(); got != "18:30" {
		t.Fatalf("dailyAt() = %q, want configured value", got)
	}
}
