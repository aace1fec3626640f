package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"DeadlineAgent/internal/classify"
	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/ports"
)

type fakeBrowser struct {
	err error
}

func (f *fakeBrowser) Navigate(context.Context, string) (ports.Page, error) {
	return nil, f.err
}

func (f *fakeBrowser) Login(context.Context, string, string, string) (ports.Page, error) {
	return nil, f.err
}

type fakeExtractor struct {
	candidates []domain.Candidate
}

func (f *fakeExtractor) Extract(ports.Page) []domain.Candidate { return f.candidates }

type failingRepository struct {
	fakeRepository
}

func (f *failingRepository) Upsert(context.Context, string, []domain.Candidate) (domain.UpsertStats, error) {
	return domain.UpsertStats{}, errors.New("store unreachable")
}

func TestRunOnceClassifiesAndStores(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	pipeline := NewPipeline(PipelineDeps{
		Browser: &fakeBrowser{},
		Extractor: &fakeExtractor{candidates: []domain.Candidate{
			{Title: "Programming Assignment 3", DueDateRaw: "Due: Friday, 1 September 2025, 11:59 PM"},
			{Title: "Course Syllabus and Policy", DueDateRaw: domain.NoDueDate},
		}},
		Classifier: classify.New(),
		Repository: repo,
	})

	result, err := pipeline.RunOnce(context.Background(), "https://lms.example.edu/course/42", "user", "pass")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected 1 classified assignment, got %d", len(result.Assignments))
	}
	if result.Assignments[0].Title != "Programming Assignment 3" {
		t.Fatalf("unexpected survivor: %q", result.Assignments[0].Title)
	}
	if result.Stats.New != 1 || result.Stats.Total != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestRunOnceEmptyExtraction(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Browser:    &fakeBrowser{},
		Extractor:  &fakeExtractor{},
		Classifier: classify.New(),
		Repository: &fakeRepository{},
	})

	result, err := pipeline.RunOnce(context.Background(), "https://lms.example.edu/course/42", "", "")
	if err != nil {
		t.Fatalf("empty extraction is not an error: %v", err)
	}
	if len(result.Assignments) != 0 || result.Stats.Total != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRunOnceNavigationFailureIsFatal(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Browser:    &fakeBrowser{err: errors.New("no page loaded")},
		Extractor:  &fakeExtractor{},
		Classifier: classify.New(),
		Repository: &fakeRepository{},
	})

	if _, err := pipeline.RunOnce(context.Background(), "https://lms.example.edu/course/42", "", ""); err == nil {
		t.Fatal("expected navigation failure to surface")
	}
}

func TestRunOnceStorageFailureIsFatal(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Browser: &fakeBrowser{},
		Extractor: &fakeExtractor{candidates: []domain.Candidate{
			{Title: "Programming Assignment 3", DueDateRaw: domain.NoDueDate},
		}},
		Classifier: classify.New(),
		Repository: &failingRepository{},
	})

	if _, err := pipeline.RunOnce(context.Background(), "https://lms.example.edu/course/42", "", ""); err == nil {
		t.Fatal("expected storage failure to surface")
	}
}

func TestRunOnceTriggersScan(t *testing.T) {
	t.Parallel()

	due := time.Now().Add(36 * time.Hour)
	repo := &fakeRepository{upcoming: []domain.Assignment{
		{CourseKey: "https://lms.example.edu/course/42", Title: "Programming Assignment 3", DueDateRaw: "Due: soon", DueDateParsed: &due},
	}}
	channel := &fakeChannel{name: "test", enabled: true}

	pipeline := NewPipeline(PipelineDeps{
		Browser: &fakeBrowser{},
		Extractor: &fakeExtractor{candidates: []domain.Candidate{
			{Title: "Programming Assignment 3", DueDateRaw: "Due: soon"},
		}},
		Classifier: classify.New(),
		Repository: repo,
		Notifier:   NewNotifier(repo, []ports.Channel{channel}, []int{7, 3, 1}, nil),
	})

	if _, err := pipeline.RunOnce(context.Background(), "https://lms.example.edu/course/42", "", ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(channel.sent) != 1 {
		t.Fatalf("expected the run to trigger one reminder, got %d", len(channel.sent))
	}
}
