package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

// AssignmentsHandler serves the stored assignment listing.
type AssignmentsHandler struct {
	repository ports.AssignmentRepository
	logger     *slog.Logger
}

// NewAssignmentsHandler wires the repository.
func NewAssignmentsHandler(repository ports.AssignmentRepository, logger *slog.Logger) *AssignmentsHandler {
	return &AssignmentsHandler{repository: repository, logger: logger}
}

// Register mounts the handler on the mux.
func (h *AssignmentsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/assignments", h.handleList)
}

type assignmentView struct {
	CourseKey     string     `json:"course_key"`
	Title         string     `json:"title"`
	DueDateRaw    string     `json:"due_date_raw"`
	DueDateParsed *time.Time `json:"due_date_parsed,omitempty"`
	ExtractedAt   time.Time  `json:"extracted_at"`
	Notified      bool       `json:"notified"`
}

type assignmentListing struct {
	Total       int              `json:"total"`
	WithDueDate int              `json:"with_due_date"`
	Assignments []assignmentView `json:"assignments"`
}

func (h *AssignmentsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := h.repository.ListAll(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("list assignments failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toListing(records))
}

func toListing(records []domain.Assignment) assignmentListing {
	listing := assignmentListing{Assignments: make([]assignmentView, 0, len(records))}
	for _, record := range records {
		listing.Total++
		if record.DueDateParsed != nil {
			listing.WithDueDate++
		}
		listing.Assignments = append(listing.Assignments, assignmentView{
			CourseKey:     record.CourseKey,
			Title:         record.Title,
			DueDateRaw:    record.DueDateRaw,
			DueDateParsed: record.DueDateParsed,
			ExtractedAt:   record.ExtractedAt,
			Notified:      record.Notified,
		})
	}
	return listing
}
