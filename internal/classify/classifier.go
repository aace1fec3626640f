package classify

import (
	"strings"

	"DeadlineAgent/internal/domain"
)

// Keyword tables are fixed data; scoring is a pure function over them.
var (
	assignmentKeywords = []string{
		"assignment", "homework", "project", "essay", "lab",
		"programming", "coding", "research", "report", "analysis",
	}

	nonAssignmentKeywords = []string{
		"syllabus", "lecture", "quiz", "exam", "announcement",
		"discussion", "forum", "schedule", "calendar", "policy",
		"introduction", "overview", "welcome", "resources",
	}
)

// Classifier scores short texts as assignment vs not-assignment using
// case-insensitive keyword counts. Deterministic, no I/O, no state.
type Classifier struct{}

// New returns a ready classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify counts keyword hits per table. Ties favor rejection, and the
// confidence is damped so a single hit never reaches full confidence.
func (c *Classifier) Classify(text string) domain.Classification {
	lowered := strings.ToLower(text)

	positive := countMatches(lowered, assignmentKeywords)
	negative := countMatches(lowered, nonAssignmentKeywords)

	confidence := float64(max(positive, negative)) / float64(positive+negative+1)

	return domain.Classification{
		IsAssignment: positive > negative,
		Confidence:   confidence,
	}
}

func countMatches(lowered string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			count++
		}
	}
	return count
}
