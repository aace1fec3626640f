package usecase

import (
	"context"
	"time"

	"DeadlineAgent/internal/ports"
)

// ReminderScheduler re-runs the deadline scan on the configured cadence so
// reminders fire even when no extraction run happens that day.
type ReminderScheduler struct {
	driver   ports.Scheduler
	notifier *Notifier
}

// NewReminderScheduler returns a helper to start/stop the recurring scan.
func NewReminderScheduler(driver ports.Scheduler, notifier *Notifier) *ReminderScheduler {
	return &ReminderScheduler{driver: driver, notifier: notifier}
}

// Start registers the scan with the provided scheduler.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.notifier == nil {
		return nil
	}

	job := func(time.Time) {
		_ = s.notifier.Scan(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
