// Package scheduler delivers due reminders.
//
// Each pass claims every pending reminder whose due time has passed and then
// notifies its owner. Claiming marks the reminder done before delivery is
// attempted, so a reminder is delivered at most once and a failed delivery is
// never retried.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/robfig/cron/v3"
)

// DefaultInterval is the time between two passes.
const DefaultInterval = 60 * time.Second

// Scheduler periodically delivers due reminders.
type Scheduler struct {
	store    store.Store
	sender   messaging.Sender
	interval time.Duration
	now      func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the time between passes. Cron schedules have a one
// second resolution: sub-second parts are truncated and the minimum is one second.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock overrides the time source used to decide what is due.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a scheduler delivering through sender.
func NewScheduler(st store.Store, sender messaging.Sender, opts ...Option) *Scheduler {
	s := &Scheduler{store: st, sender: sender, interval: DefaultInterval, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the time between passes.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// RunOnce claims the due reminders and delivers each one. It returns the
// number of successful deliveries. Failures are logged and dropped.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	due, err := s.store.ClaimDueReminders(ctx, s.now())
	if err != nil {
		slog.Error("Scheduler.RunOnce claim failed", "error", err)
		return 0
	}
	delivered := 0
	for _, d := range due {
		if err := s.sender.SendText(ctx, d.TelegramID, menu.Reminder(d), nil); err != nil {
			slog.Warn("Scheduler.RunOnce delivery failed", "error", err, "reminderID", d.ID, "telegramID", d.TelegramID)
			continue
		}
		delivered++
		slog.Info("Scheduler reminder delivered", "reminderID", d.ID, "petID", d.PetID)
	}
	if len(due) > 0 {
		slog.Debug("Scheduler.RunOnce finished", "claimed", len(due), "delivered", delivered)
	}
	return delivered
}

// Run makes a first pass immediately, then one pass per interval until ctx
// is cancelled. It waits for a running pass before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.RunOnce(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger), cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule reminder scan: %w", err)
	}
	c.Start()
	slog.Info("Scheduler started", "interval", s.interval)

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("Scheduler stopped")
	return nil
}
