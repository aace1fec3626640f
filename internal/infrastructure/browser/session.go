package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DeadlineAgent/internal/ports"
)

// assignmentsLinkText is the course navigation entry leading to the
// deadline listing.
const assignmentsLinkText = "Assignments"

// Candidate selectors for login fields, broadest-first. Course platforms
// label these inconsistently.
var (
	usernameSelectors = []string{
		`input[name="username"]`, `input[name="user"]`, `input[id*="user"]`,
		`input[name="email"]`, `input[type="email"]`, `input[id*="login"]`,
	}
	passwordSelectors = []string{
		`input[type="password"]`, `input[name="password"]`, `input[id*="pass"]`,
	}
)

// Session is an exclusively-owned browsing session backed by a cookie-aware
// HTTP client. Login is best-effort: a missing form is a warning, and the
// caller proceeds with whatever page state exists.
type Session struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Browser = (*Session)(nil)

// NewSession builds a session; timeout bounds every navigation.
func NewSession(timeout time.Duration, logger *slog.Logger) *Session {
	jar, _ := cookiejar.New(nil)
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Session{
		client: &http.Client{Jar: jar, Timeout: timeout},
		logger: logger,
	}
}

// Navigate fetches and parses the page at the URL.
func (s *Session) Navigate(ctx context.Context, pageURL string) (ports.Page, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return NewPage(doc), nil
}

// Login loads the URL, authenticates best-effort, and follows the page's
// assignments section link when one exists, so extraction reads the section
// a student would click into rather than the course landing page.
func (s *Session) Login(ctx context.Context, pageURL, username, password string) (ports.Page, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc = s.authenticate(ctx, pageURL, doc, username, password)
	return NewPage(s.openAssignments(ctx, pageURL, doc)), nil
}

// authenticate fills the first recognizable credential form, submits it, and
// re-fetches the target page. Any step that fails downgrades to the
// unauthenticated page with a warning.
func (s *Session) authenticate(ctx context.Context, pageURL string, doc *goquery.Document, username, password string) *goquery.Document {
	if username == "" || password == "" {
		return doc
	}

	form := findLoginForm(doc)
	if form == nil {
		s.warn("could not find login fields", "url", pageURL)
		return doc
	}

	action, values := collectFormValues(form, username, password)
	submitURL, err := resolveRef(pageURL, action)
	if err != nil {
		s.warn("cannot resolve login form action", "error", err)
		return doc
	}

	if err := s.submit(ctx, submitURL, values); err != nil {
		s.warn("login submit failed", "error", err)
		return doc
	}

	after, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.warn("reload after login failed", "error", err)
		return doc
	}

	return after
}

// openAssignments follows the "Assignments" section link. A missing link or
// a failed section load keeps the current page.
func (s *Session) openAssignments(ctx context.Context, pageURL string, doc *goquery.Document) *goquery.Document {
	link := findAnchor(doc, assignmentsLinkText)
	if link.Length() == 0 {
		return doc
	}

	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return doc
	}

	target, err := resolveRef(pageURL, href)
	if err != nil {
		s.warn("cannot resolve assignments link", "error", err)
		return doc
	}

	section, err := s.fetch(ctx, target)
	if err != nil {
		s.warn("assignments section load failed", "url", target, "error", err)
		return doc
	}

	return section
}

func (s *Session) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "DeadlineAgent/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func (s *Session) submit(ctx context.Context, submitURL string, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "DeadlineAgent/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("login returned %s", resp.Status)
	}
	return nil
}

// findLoginForm returns the first form carrying a password input.
func findLoginForm(doc *goquery.Document) *goquery.Selection {
	var form *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		if f.Find(`input[type="password"]`).Length() > 0 {
			form = f
			return false
		}
		return true
	})
	return form
}

// collectFormValues fills username/password into the first matching inputs
// and carries hidden fields (tokens) through unchanged.
func collectFormValues(form *goquery.Selection, username, password string) (string, url.Values) {
	values := url.Values{}

	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		if value, ok := input.Attr("value"); ok {
			values.Set(name, value)
		}
	})

	fillFirst(form, usernameSelectors, username, values)
	fillFirst(form, passwordSelectors, password, values)

	action, _ := form.Attr("action")
	return action, values
}

func fillFirst(form *goquery.Selection, selectors []string, value string, values url.Values) {
	for _, selector := range selectors {
		input := form.Find(selector).First()
		if input.Length() == 0 {
			continue
		}
		if name, ok := input.Attr("name"); ok && name != "" {
			values.Set(name, value)
			return
		}
	}
}

// resolveRef resolves a form action or link href against the page URL.
func resolveRef(pageURL, ref string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if ref == "" {
		return base.String(), nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference: %w", err)
	}
	return base.ResolveReference(parsed).String(), nil
}

func (s *Session) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
