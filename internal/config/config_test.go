package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEADLINE_AGENT_CONFIG", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg := Load()

	if cfg.Database.Path != "assignments.db" {
		t.Fatalf("unexpected database path: %q", cfg.Database.Path)
	}
	if got := cfg.Notifications.AdvanceDays; len(got) != 3 || got[0] != 7 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("unexpected advance days: %v", got)
	}
	if !cfg.Notifications.Desktop.Enabled {
		t.Fatal("desktop channel should default to enabled")
	}
	if cfg.Scheduler.ReminderHour != 9 {
		t.Fatalf("unexpected reminder hour: %d", cfg.Scheduler.ReminderHour)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
database:
  path: /var/lib/agent/assignments.db
scheduler:
  reminderHour: 7
notifications:
  advanceDays: [14, 7]
  email:
    enabled: true
    smtpHost: smtp.example.org
    smtpPort: 465
    sender: agent@example.org
    recipient: student@example.org
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DEADLINE_AGENT_CONFIG", path)
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("SMTP_PASSWORD", "from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := Load()

	if cfg.Database.Path != "/var/lib/agent/assignments.db" {
		t.Fatalf("file override ignored: %q", cfg.Database.Path)
	}
	if cfg.Scheduler.ReminderHour != 7 {
		t.Fatalf("unexpected reminder hour: %d", cfg.Scheduler.ReminderHour)
	}
	if got := cfg.Notifications.AdvanceDays; len(got) != 2 || got[0] != 14 {
		t.Fatalf("unexpected advance days: %v", got)
	}
	if !cfg.Notifications.Email.Enabled || cfg.Notifications.Email.SMTPPort != 465 {
		t.Fatalf("email config not merged: %+v", cfg.Notifications.Email)
	}
	if cfg.Notifications.Email.Password != "from-env" {
		t.Fatalf("env override ignored: %q", cfg.Notifications.Email.Password)
	}
	// Defaults survive where the file is silent.
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected server addr: %q", cfg.Server.Addr)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
scheduler:
  reminderHour: 6
notifications:
  advanceDays: [2]
  email:
    enabled: true
    sender: agent@example.org
    recipient: student@example.org
  telegram:
    enabled: true
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DEADLINE_AGENT_CONFIG", path)
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok123")
	t.Setenv("TELEGRAM_CHAT_ID", "chat42")

	cfg := Load()

	// Sections the file never mentions keep their defaults.
	if !cfg.Notifications.Desktop.Enabled {
		t.Fatal("desktop default lost: a file without a desktop section must not disable the channel")
	}
	if cfg.Database.Path != "assignments.db" {
		t.Fatalf("database default lost: %q", cfg.Database.Path)
	}

	// A partial email block keeps the default host and port.
	if !cfg.Notifications.Email.Enabled {
		t.Fatal("email enabled flag from the file was dropped")
	}
	if cfg.Notifications.Email.SMTPHost != "smtp.gmail.com" || cfg.Notifications.Email.SMTPPort != 587 {
		t.Fatalf("email SMTP defaults lost: %+v", cfg.Notifications.Email)
	}
	if cfg.Notifications.Email.Sender != "agent@example.org" {
		t.Fatalf("email sender not merged: %q", cfg.Notifications.Email.Sender)
	}

	// Telegram enabled via file, token and chat via environment.
	if !cfg.Notifications.Telegram.Enabled {
		t.Fatal("telegram enabled flag from the file was dropped")
	}
	if cfg.Notifications.Telegram.BotToken != "tok123" || cfg.Notifications.Telegram.ChatID != "chat42" {
		t.Fatalf("telegram env overrides lost: %+v", cfg.Notifications.Telegram)
	}

	if cfg.Scheduler.ReminderHour != 6 {
		t.Fatalf("unexpected reminder hour: %d", cfg.Scheduler.ReminderHour)
	}
	if got := cfg.Notifications.AdvanceDays; len(got) != 1 || got[0] != 2 {
		t.Fatalf("unexpected advance days: %v", got)
	}
}

func TestLoadExplicitDesktopDisable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
notifications:
  desktop:
    enabled: false
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DEADLINE_AGENT_CONFIG", path)
	t.Setenv("DATABASE_PATH", "")

	cfg := Load()
	if cfg.Notifications.Desktop.Enabled {
		t.Fatal("explicit enabled: false must turn the desktop channel off")
	}
}
