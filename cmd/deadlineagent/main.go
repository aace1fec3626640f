package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"DeadlineAgent/internal/app"
	"DeadlineAgent/internal/config"
	"DeadlineAgent/internal/logging"
)

var (
	courseURL string
	username  string
	password  string
)

var rootCmd = &cobra.Command{
	Use:   "deadlineagent",
	Short: "Tracks course assignment deadlines and sends reminders",
	Long: `Extracts assignment deadlines from a course page, stores them, and
reminds you as due dates approach.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP front-end and the daily reminder scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return application.Serve(ctx)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform a single extraction and reminder pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		if courseURL == "" {
			return fmt.Errorf("--url is required")
		}

		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.RunOnce(cmd.Context(), courseURL, username, password)
		if err != nil {
			return err
		}

		fmt.Printf("Stored %d assignments (%d new, %d updated)\n",
			result.Stats.Total, result.Stats.New, result.Stats.Updated)
		for _, assignment := range result.Assignments {
			fmt.Printf("  - %s (confidence %.2f)\n    %s\n",
				assignment.Title, assignment.Confidence, assignment.DueDate)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all tracked assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		assignments, err := application.ListAll(cmd.Context())
		if err != nil {
			return err
		}

		withDue := 0
		for _, assignment := range assignments {
			if assignment.DueDateParsed != nil {
				withDue++
			}
		}
		fmt.Printf("Tracked assignments: %d (%d with due dates)\n", len(assignments), withDue)
		for _, assignment := range assignments {
			marker := " "
			if assignment.Notified {
				marker = "*"
			}
			fmt.Printf("%s %s\n    %s\n", marker, assignment.Title, assignment.DueDateRaw)
		}
		return nil
	},
}

func newApplication() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func init() {
	runCmd.Flags().StringVar(&courseURL, "url", "", "Course page URL")
	runCmd.Flags().StringVar(&username, "username", "", "Login username")
	runCmd.Flags().StringVar(&password, "password", "", "Login password")

	rootCmd.AddCommand(serveCmd, runCmd, listCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
