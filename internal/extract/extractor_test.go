package extract

import (
	"errors"
	"testing"

	"DeadlineAgent/internal/ports"
)

type fakeElement struct {
	text    string
	textErr error
	parent  *fakeElement
}

func (f *fakeElement) Text() (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeElement) Parent() (ports.Element, error) {
	if f.parent == nil {
		return nil, errors.New("no parent")
	}
	return f.parent, nil
}

type fakePage struct {
	assignmentNodes []ports.Element
	textNodes       []ports.Element
}

func (f *fakePage) FindBySelector(string) ([]ports.Element, error) { return nil, nil }

func (f *fakePage) FindByLinkText(string) (ports.Element, error) {
	return nil, errors.New("not found")
}

func (f *fakePage) FindByTextContains(string) ([]ports.Element, error) {
	return f.assignmentNodes, nil
}

func (f *fakePage) TextElements() ([]ports.Element, error) { return f.textNodes, nil }

func leaf(text string) *fakeElement { return &fakeElement{text: text} }

func nested(text, parentText string) *fakeElement {
	return &fakeElement{text: text, parent: &fakeElement{text: parentText}}
}

func TestAncestorWalk(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		assignmentNodes: []ports.Element{
			nested("Assignment 1: Sorting", "Assignment 1: Sorting\nOpened: Monday\nDue: Tuesday, 19 August 2025, 12:00 AM"),
		},
	}

	got := New(nil).Extract(page)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "Assignment 1: Sorting" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[0].DueDateRaw != "Due: Tuesday, 19 August 2025, 12:00 AM" {
		t.Fatalf("unexpected due date: %q", got[0].DueDateRaw)
	}
}

func TestAncestorWalkFilters(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		assignmentNodes: []ports.Element{
			// Section header, not an entry.
			leaf("Assignments"),
			// Navigation chrome.
			nested("Click to open Assignment", "Click to open Assignment\nDue: Friday"),
			// Too short.
			leaf("Assi"),
			// Read failure is a skip, not an abort.
			&fakeElement{textErr: errors.New("stale element")},
			// Survives everything.
			nested("Assignment 2: Graphs", "Assignment 2: Graphs\nDue: Friday, 1 September 2025, 11:59 PM"),
		},
	}

	got := New(nil).Extract(page)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "Assignment 2: Graphs" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
}

func TestAncestorWalkDeduplicates(t *testing.T) {
	t.Parallel()

	// The same assignment surfaces at two DOM levels with truncated text.
	full := "Assignment 3: Dynamic Programming\nDue: Monday, 6 October 2025, 11:59 PM"
	page := &fakePage{
		assignmentNodes: []ports.Element{
			nested("Assignment 3: Dynamic Programming", full),
			nested("Assignment 3: Dynamic", full),
		},
	}

	got := New(nil).Extract(page)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate after dedupe, got %d", len(got))
	}
}

func TestFallbackPairsTitleWithDue(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		textNodes: []ports.Element{
			leaf("Assignment: Essay 1"),
			leaf("Due: Friday, 1 September 2025, 11:59 PM"),
			leaf("Lecture Notes Week 1"),
		},
	}

	got := New(nil).Extract(page)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d", len(got))
	}
	if got[0].Title != "Assignment: Essay 1" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[0].DueDateRaw != "Due: Friday, 1 September 2025, 11:59 PM" {
		t.Fatalf("unexpected due date: %q", got[0].DueDateRaw)
	}
}

func TestFallbackIgnoresDueWithoutTitle(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		textNodes: []ports.Element{
			leaf("Due: Friday, 1 September 2025, 11:59 PM"),
			leaf("Assignment: Essay 2"),
		},
	}

	got := New(nil).Extract(page)
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestEmptyPageYieldsEmptyList(t *testing.T) {
	t.Parallel()

	got := New(nil).Extract(&fakePage{})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d candidates", len(got))
	}
}
