package notify

import (
	"context"
	"fmt"
	"os/exec"

	"DeadlineAgent/internal/config"
	"DeadlineAgent/internal/ports"
)

// DesktopChannel raises a local popup through the system notifier.
type DesktopChannel struct {
	enabled bool
	command string
}

var _ ports.Channel = (*DesktopChannel)(nil)

// NewDesktopChannel builds the channel from configuration.
func NewDesktopChannel(cfg config.DesktopConfig) *DesktopChannel {
	return &DesktopChannel{enabled: cfg.Enabled, command: "notify-send"}
}

// Name identifies the channel in logs.
func (d *DesktopChannel) Name() string { return "desktop" }

// Enabled reports the configured flag.
func (d *DesktopChannel) Enabled() bool { return d.enabled }

// Send shells out to the system notifier with the reminder text.
func (d *DesktopChannel) Send(ctx context.Context, title, message string) error {
	cmd := exec.CommandContext(ctx, d.command, "--app-name=Deadline Agent", title, message)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
