package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"DeadlineAgent/internal/classify"
	"DeadlineAgent/internal/config"
	"DeadlineAgent/internal/domain"
	"DeadlineAgent/internal/duedate"
	"DeadlineAgent/internal/extract"
	httpapi "DeadlineAgent/internal/http"
	"DeadlineAgent/internal/http/handlers"
	"DeadlineAgent/internal/infrastructure/browser"
	"DeadlineAgent/internal/infrastructure/notify"
	"DeadlineAgent/internal/infrastructure/scheduler"
	"DeadlineAgent/internal/infrastructure/storage"
	"DeadlineAgent/internal/logging"
	"DeadlineAgent/internal/ports"
	"DeadlineAgent/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.SQLiteRepository
	pipeline   *usecase.Pipeline
	notifier   *usecase.Notifier
	reminders  *usecase.ReminderScheduler
	router     *httpapi.Router
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	parser := duedate.New(duedate.NaturalSource{})
	repository, err := storage.Open(cfg.Database.Path, parser)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	channels := []ports.Channel{
		notify.NewDesktopChannel(cfg.Notifications.Desktop),
		notify.NewEmailChannel(cfg.Notifications.Email),
		notify.NewTelegramChannel(cfg.Notifications.Telegram),
	}

	notifier := usecase.NewNotifier(repository, channels, cfg.Notifications.AdvanceDays,
		baseLogger.With("component", "notifier"))

	session := browser.NewSession(cfg.Scraper.PageLoadWait()+cfg.Scraper.LoginWait(),
		baseLogger.With("component", "browser"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Browser:    session,
		Extractor:  extract.New(baseLogger.With("component", "extractor")),
		Classifier: classify.New(),
		Repository: repository,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	reminders := usecase.NewReminderScheduler(
		scheduler.NewDailyScheduler(cfg.Scheduler.ReminderHour, cfg.Scheduler.Location()),
		notifier,
	)

	router := httpapi.NewRouter(
		handlers.NewScrapeHandler(pipeline, baseLogger.With("component", "http")),
		handlers.NewAssignmentsHandler(repository, baseLogger.With("component", "http")),
	)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		pipeline:   pipeline,
		notifier:   notifier,
		reminders:  reminders,
		router:     router,
	}, nil
}

// RunOnce performs a single extraction-to-reminder pass.
func (a *Application) RunOnce(ctx context.Context, url, username, password string) (usecase.RunResult, error) {
	return a.pipeline.RunOnce(ctx, url, username, password)
}

// ListAll returns every stored assignment, due date ascending, undated last.
func (a *Application) ListAll(ctx context.Context) ([]domain.Assignment, error) {
	return a.repository.ListAll(ctx)
}

// Serve runs the HTTP front-end and the daily reminder scan until the
// context is canceled.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.reminders.Start(ctx); err != nil {
		return fmt.Errorf("start reminder scheduler: %w", err)
	}

	server := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.reminders.Stop(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.repository.Close()
}
