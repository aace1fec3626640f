package domain

import "time"

// NoDueDate is the sentinel stored when extraction finds a title but no due line.
const NoDueDate = "No due date found"

// Candidate is a raw (title, due-date text) pair produced by extraction,
// pending classification. Never persisted.
type Candidate struct {
	Title      string
	DueDateRaw string
}

// Classification is the verdict of the keyword classifier for one text.
type Classification struct {
	IsAssignment bool
	Confidence   float64
}

// Assignment is the persisted record, unique per (CourseKey, Title).
type Assignment struct {
	CourseKey     string
	Title         string
	DueDateRaw    string
	DueDateParsed *time.Time
	ExtractedAt   time.Time
	Notified      bool
}

// UpsertStats summarizes one storage pass over a candidate batch.
type UpsertStats struct {
	New     int `json:"new"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}
