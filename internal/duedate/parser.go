package duedate

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

// Moodle renders due lines like "Due: Tuesday, 19 August 2025, 12:00 AM".
const fixedLayout = "Monday, 2 January 2006, 3:04 PM"

// Parser turns raw due-date text into a timestamp. The natural-language
// step is an injected capability so the parser degrades to the fixed
// layout when none is configured.
type Parser struct {
	natural ports.DateSource
}

// New builds a parser; a nil natural source disables the first step.
func New(natural ports.DateSource) *Parser {
	if natural == nil {
		natural = noopSource{}
	}
	return &Parser{natural: natural}
}

// Parse returns nil for the sentinel and empty input, otherwise strips the
// "Due:" label and tries the natural parser, then the fixed layout. A nil
// result is data, not an error.
func (p *Parser) Parse(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == domain.NoDueDate {
		return nil
	}

	cleaned := strings.TrimSpace(strings.TrimPrefix(raw, "Due:"))
	if cleaned == "" {
		return nil
	}

	if parsed, ok := p.natural.Parse(cleaned); ok {
		return &parsed
	}

	if parsed, err := time.ParseInLocation(fixedLayout, cleaned, time.Local); err == nil {
		return &parsed
	}

	return nil
}

// NaturalSource parses free-form dates with the dateparse library.
type NaturalSource struct{}

var _ ports.DateSource = NaturalSource{}

// Parse attempts a lenient any-format parse in the local timezone.
func (NaturalSource) Parse(raw string) (time.Time, bool) {
	parsed, err := dateparse.ParseIn(raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

type noopSource struct{}

func (noopSource) Parse(string) (time.Time, bool) {
	return time.Time{}, false
}
