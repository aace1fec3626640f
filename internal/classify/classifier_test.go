package classify

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		text         string
		isAssignment bool
	}{
		{"programming assignment", "Programming Assignment 3", true},
		{"syllabus page", "Course Syllabus and Policy", false},
		{"homework", "Homework 2: Recursion", true},
		{"lecture notes", "Lecture Notes Week 1", false},
		{"no keywords at all", "Untitled", false},
		{"tie favors rejection", "Assignment Overview", false},
		{"essay project", "Final Essay Project", true},
	}

	c := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.text)
			if got.IsAssignment != tc.isAssignment {
				t.Fatalf("Classify(%q).IsAssignment = %v, want %v", tc.text, got.IsAssignment, tc.isAssignment)
			}
		})
	}
}

func TestClassifyConfidenceDamped(t *testing.T) {
	t.Parallel()

	c := New()

	got := c.Classify("Programming Assignment 3")
	if got.Confidence >= 1 {
		t.Fatalf("confidence %f should stay below 1", got.Confidence)
	}

	// Two positive hits, zero negative: 2 / (2 + 0 + 1).
	want := 2.0 / 3.0
	if got.Confidence != want {
		t.Fatalf("confidence = %f, want %f", got.Confidence, want)
	}

	empty := c.Classify("Untitled")
	if empty.Confidence != 0 {
		t.Fatalf("confidence with no keyword hits = %f, want 0", empty.Confidence)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := New()
	if !c.Classify("PROGRAMMING ASSIGNMENT").IsAssignment {
		t.Fatal("uppercase text should still match keywords")
	}
}
