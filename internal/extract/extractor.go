package extract

import (
	"log/slog"
	"strings"

	"DeadlineAgent/internal/dedupe"
	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

const (
	minTitleLength    = 5
	maxFallbackLength = 100
	maxAncestorLevels = 5
)

// Navigation chrome rejection lists from the course pages this targets.
var (
	skipWords     = []string{"skip", "click", "open", "view", "navigate"}
	skipPrefixes  = []string{"Click", "View", "Open", "Navigate", "Skip"}
	metadataWords = []string{"Due:", "Opened:", "Closed:"}
)

// Extractor walks a rendered page's text tree and produces raw candidates.
// Two ordered strategies: an ancestor walk around "Assignment" text nodes,
// then a flat title/due pairing pass used only when the walk finds nothing.
// A single bad element never aborts extraction.
type Extractor struct {
	logger *slog.Logger
}

// New builds an extractor; the logger may be nil.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns deduplicated candidates, or an empty slice when the page
// yields nothing. The page is only read, never mutated.
func (e *Extractor) Extract(page ports.Page) []domain.Candidate {
	candidates, seen := e.ancestorWalk(page)
	if len(candidates) == 0 {
		e.debug("ancestor walk found nothing, using fallback")
		candidates = e.flatPairs(page, seen)
	}
	return candidates
}

// ancestorWalk locates "Assignment" text nodes and climbs their enclosing
// containers looking for an associated "Due:" line.
func (e *Extractor) ancestorWalk(page ports.Page) ([]domain.Candidate, []string) {
	var (
		candidates []domain.Candidate
		seen       []string
	)

	elements, err := page.FindByTextContains("Assignment")
	if err != nil {
		e.debug("assignment node query failed", "error", err)
		return nil, nil
	}
	e.debug("potential assignment elements", "count", len(elements))

	for _, element := range elements {
		text, err := element.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		// "Assignments" is the section header, not an entry.
		if strings.Contains(text, "Assignments") {
			continue
		}
		if len(text) < minTitleLength || containsSkipWord(text) {
			continue
		}

		title, dueDate := climbForDueDate(element)
		if title == "" || dedupe.IsDuplicate(title, seen) {
			continue
		}

		seen = append(seen, title)
		candidates = append(candidates, domain.Candidate{Title: title, DueDateRaw: dueDate})
		e.debug("found assignment", "title", title)
	}

	return candidates, seen
}

// climbForDueDate inspects up to five ancestor levels. A level is only
// interesting once its text carries a "Due:" line; the title is the first
// assignment-looking line at that level.
func climbForDueDate(element ports.Element) (string, string) {
	dueDate := domain.NoDueDate
	title := ""

	current := element
	for level := 0; level < maxAncestorLevels; level++ {
		parentText, err := current.Text()
		if err != nil {
			break
		}
		parentText = strings.TrimSpace(parentText)

		if parentText != "" && strings.Contains(parentText, "Due:") {
			for _, line := range strings.Split(parentText, "\n") {
				line = strings.TrimSpace(line)
				switch {
				case isTitleLine(line):
					title = line
				case strings.HasPrefix(line, "Due:"):
					dueDate = line
				}
			}

			if title != "" {
				break
			}
		}

		parent, err := current.Parent()
		if err != nil {
			break
		}
		current = parent
	}

	return title, dueDate
}

func isTitleLine(line string) bool {
	if !strings.Contains(line, "Assignment") || len(line) <= minTitleLength {
		return false
	}
	for _, word := range metadataWords {
		if strings.Contains(line, word) {
			return false
		}
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

// flatPairs scans every text-bearing element in document order, buffering a
// single candidate title and emitting it when a "Due:" text follows.
func (e *Extractor) flatPairs(page ports.Page, seen []string) []domain.Candidate {
	var candidates []domain.Candidate

	elements, err := page.TextElements()
	if err != nil {
		e.debug("text element query failed", "error", err)
		return nil
	}

	currentTitle := ""
	for _, element := range elements {
		text, err := element.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		switch {
		case strings.Contains(text, "Assignment") && len(text) < maxFallbackLength:
			if !containsMetadataWord(text) {
				currentTitle = text
			}
		case strings.HasPrefix(text, "Due:") && currentTitle != "":
			if !dedupe.IsDuplicate(currentTitle, seen) {
				seen = append(seen, currentTitle)
				candidates = append(candidates, domain.Candidate{Title: currentTitle, DueDateRaw: text})
				e.debug("found assignment", "title", currentTitle)
			}
			currentTitle = ""
		}
	}

	return candidates
}

func containsSkipWord(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range skipWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

func containsMetadataWord(text string) bool {
	for _, word := range metadataWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
