package ports

import (
	"context"
	"time"

	"DeadlineAgent/internal/domain"
)

// Element is one node of a rendered page's text tree.
type Element interface {
	// Text returns the full visible text of the element, including descendants.
	Text() (string, error)
	// Parent returns the enclosing element, or an error at the document root.
	Parent() (Element, error)
}

// Page is a read-only view of a single loaded page. Implementations must not
// mutate page state; extraction treats every per-element failure as a skip.
type Page interface {
	FindBySelector(css string) ([]Element, error)
	FindByLinkText(text string) (Element, error)
	FindByTextContains(substr string) ([]Element, error)
	// TextElements returns every text-bearing element in document order.
	TextElements() ([]Element, error)
}

// Browser navigates, logs in, and exposes the resulting page. The underlying
// session is exclusively owned by one run at a time.
type Browser interface {
	Navigate(ctx context.Context, url string) (Page, error)
	Login(ctx context.Context, url, username, password string) (Page, error)
}

// AssignmentRepository persists assignments keyed by (course key, title).
type AssignmentRepository interface {
	Upsert(ctx context.Context, courseKey string, candidates []domain.Candidate) (domain.UpsertStats, error)
	QueryDueWithin(ctx context.Context, window time.Duration) ([]domain.Assignment, error)
	MarkNotified(ctx context.Context, courseKey, title string) error
	ListAll(ctx context.Context) ([]domain.Assignment, error)
}

// Channel delivers one reminder over a concrete transport. Each channel
// honors its own enabled flag and owns its transport failures.
type Channel interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, title, message string) error
}

// DateSource parses free-form date text. A no-op implementation stands in
// when no natural-language parser is configured.
type DateSource interface {
	Parse(raw string) (time.Time, bool)
}

// Scheduler controls when the deadline scan re-runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
