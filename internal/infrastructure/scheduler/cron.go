package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"DeadlineAgent/internal/ports"
)

// DailyScheduler fires the job once a day at a fixed hour.
type DailyScheduler struct {
	cron    *cron.Cron
	spec    string
	entryID cron.EntryID
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler firing at the given hour in the
// given timezone.
func NewDailyScheduler(hour int, location *time.Location) *DailyScheduler {
	if location == nil {
		location = time.UTC
	}
	return &DailyScheduler{
		cron: cron.New(cron.WithLocation(location)),
		spec: fmt.Sprintf("0 %d * * *", hour),
	}
}

// Start registers the job and begins the cron loop.
func (s *DailyScheduler) Start(_ context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.spec, func() { job(time.Now()) })
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *DailyScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
