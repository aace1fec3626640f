package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

// Extractor produces raw candidates from a loaded page.
type Extractor interface {
	Extract(page ports.Page) []domain.Candidate
}

// Classifier filters candidate titles.
type Classifier interface {
	Classify(text string) domain.Classification
}

// PipelineDeps wires all collaborators into the run orchestration.
type PipelineDeps struct {
	Browser    ports.Browser
	Extractor  Extractor
	Classifier Classifier
	Repository ports.AssignmentRepository
	Notifier   *Notifier
	Logger     *slog.Logger
}

// Pipeline implements one extraction-to-reminder run over a single course
// page. Credentials are scoped to the call; nothing is cached process-wide.
type Pipeline struct {
	browser    ports.Browser
	extractor  Extractor
	classifier Classifier
	repository ports.AssignmentRepository
	notifier   *Notifier
	logger     *slog.Logger
}

// ClassifiedAssignment is one accepted candidate in a run result.
type ClassifiedAssignment struct {
	Title      string  `json:"title"`
	DueDate    string  `json:"due_date"`
	Confidence float64 `json:"confidence"`
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID       string                 `json:"run_id"`
	Stats       domain.UpsertStats     `json:"stats"`
	Assignments []ClassifiedAssignment `json:"assignments"`
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		browser:    deps.Browser,
		extractor:  deps.Extractor,
		classifier: deps.Classifier,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// RunOnce loads the course page, extracts and classifies candidates,
// persists the survivors, and triggers the deadline scan. Extraction
// yielding nothing is a valid empty result; storage failure is fatal for
// the run.
func (p *Pipeline) RunOnce(ctx context.Context, url, username, password string) (RunResult, error) {
	result := RunResult{RunID: uuid.NewString(), Assignments: []ClassifiedAssignment{}}
	logger := p.logger
	if logger != nil {
		logger = logger.With("run_id", result.RunID)
	}

	page, err := p.browser.Login(ctx, url, username, password)
	if err != nil {
		return RunResult{}, fmt.Errorf("load course page: %w", err)
	}

	candidates := p.extractor.Extract(page)
	if logger != nil {
		logger.Info("extraction finished", "candidates", len(candidates))
	}

	accepted := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		verdict := p.classifier.Classify(candidate.Title)
		if !verdict.IsAssignment {
			if logger != nil {
				logger.Debug("filtered out", "title", candidate.Title, "confidence", verdict.Confidence)
			}
			continue
		}
		accepted = append(accepted, candidate)
		result.Assignments = append(result.Assignments, ClassifiedAssignment{
			Title:      candidate.Title,
			DueDate:    candidate.DueDateRaw,
			Confidence: verdict.Confidence,
		})
	}

	if len(accepted) > 0 {
		stats, err := p.repository.Upsert(ctx, url, accepted)
		if err != nil {
			return RunResult{}, fmt.Errorf("persist assignments: %w", err)
		}
		result.Stats = stats
		if logger != nil {
			logger.Info("stored assignments", "new", stats.New, "updated", stats.Updated, "total", stats.Total)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Scan(ctx); err != nil {
			return RunResult{}, fmt.Errorf("deadline scan: %w", err)
		}
	}

	return result, nil
}
