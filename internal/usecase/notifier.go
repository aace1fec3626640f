package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

// scanWindow bounds how far ahead the deadline scan looks.
const scanWindow = 30 * 24 * time.Hour

// Notifier decides which stored assignments warrant a reminder and fans the
// reminder out to every enabled channel. The notified latch flips exactly
// once per assignment, after the reminder decision fires; per-channel
// transport failures are logged and never retried.
type Notifier struct {
	repository  ports.AssignmentRepository
	channels    []ports.Channel
	advanceDays []int
	logger      *slog.Logger
	now         func() time.Time
}

// NewNotifier wires the scan with its channels and thresholds.
func NewNotifier(repository ports.AssignmentRepository, channels []ports.Channel, advanceDays []int, logger *slog.Logger) *Notifier {
	return &Notifier{
		repository:  repository,
		channels:    channels,
		advanceDays: advanceDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Scan queries upcoming deadlines and dispatches one reminder per
// unnotified assignment whose day distance hits a configured threshold or
// the unconditional due-within-a-day rule.
func (n *Notifier) Scan(ctx context.Context) error {
	if n.repository == nil {
		return nil
	}

	upcoming, err := n.repository.QueryDueWithin(ctx, scanWindow)
	if err != nil {
		return fmt.Errorf("query upcoming: %w", err)
	}

	for _, assignment := range upcoming {
		if assignment.Notified || assignment.DueDateParsed == nil {
			continue
		}

		daysUntil := n.daysUntil(*assignment.DueDateParsed)
		if !slices.Contains(n.advanceDays, daysUntil) && daysUntil > 1 {
			continue
		}

		n.info("sending reminder", "title", assignment.Title, "days_until", daysUntil)
		n.dispatch(ctx, assignment, daysUntil)

		if err := n.repository.MarkNotified(ctx, assignment.CourseKey, assignment.Title); err != nil {
			return fmt.Errorf("mark notified %q: %w", assignment.Title, err)
		}
	}

	return nil
}

// daysUntil floors the signed distance to whole days, so overdue work lands
// at negative counts and trips the <= 1 rule.
func (n *Notifier) daysUntil(due time.Time) int {
	return int(math.Floor(due.Sub(n.now()).Hours() / 24))
}

func (n *Notifier) dispatch(ctx context.Context, assignment domain.Assignment, daysUntil int) {
	title, message := reminderText(assignment, daysUntil)

	for _, channel := range n.channels {
		if !channel.Enabled() {
			continue
		}
		if err := channel.Send(ctx, title, message); err != nil {
			n.warn("channel send failed", "channel", channel.Name(), "title", assignment.Title, "error", err)
			continue
		}
		n.info("reminder delivered", "channel", channel.Name(), "title", assignment.Title)
	}
}

func reminderText(assignment domain.Assignment, daysUntil int) (string, string) {
	var title, urgency string
	switch {
	case daysUntil < 0:
		title = "Assignment overdue"
		if d := -daysUntil; d == 1 {
			urgency = "Overdue by 1 day"
		} else {
			urgency = fmt.Sprintf("Overdue by %d days", d)
		}
	case daysUntil == 0:
		title = "Assignment due today"
		urgency = "Due today"
	case daysUntil == 1:
		title = "Assignment due tomorrow"
		urgency = "Due tomorrow"
	default:
		title = fmt.Sprintf("Assignment due in %d days", daysUntil)
		urgency = fmt.Sprintf("Due in %d days", daysUntil)
	}

	message := fmt.Sprintf("%s\n\n%s\n%s", urgency, assignment.Title, assignment.DueDateRaw)
	return title, message
}

func (n *Notifier) info(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}

func (n *Notifier) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
