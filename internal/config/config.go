package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "DEADLINE_AGENT_CONFIG"
	databasePathEnv   = "DATABASE_PATH"
	httpAddrEnv       = "HTTP_ADDR"
	smtpPasswordEnv   = "SMTP_PASSWORD"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Server        ServerConfig       `yaml:"server"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the embedded SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig describes the HTTP front-end listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ScraperConfig bounds how long a run waits on page state.
type ScraperConfig struct {
	PageLoadWaitSeconds int `yaml:"pageLoadWaitSeconds"`
	LoginWaitSeconds    int `yaml:"loginWaitSeconds"`
}

// PageLoadWait returns the settle budget after navigation.
func (s ScraperConfig) PageLoadWait() time.Duration {
	return time.Duration(s.PageLoadWaitSeconds) * time.Second
}

// LoginWait returns the settle budget after submitting credentials.
func (s ScraperConfig) LoginWait() time.Duration {
	return time.Duration(s.LoginWaitSeconds) * time.Second
}

// SchedulerConfig defines when the daily reminder scan should run.
type SchedulerConfig struct {
	ReminderHour int            `yaml:"reminderHour"`
	Timezone     string         `yaml:"timezone"`
	location     *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels and reminder thresholds.
type NotificationConfig struct {
	AdvanceDays []int          `yaml:"advanceDays"`
	Desktop     DesktopConfig  `yaml:"desktop"`
	Email       EmailConfig    `yaml:"email"`
	Telegram    TelegramConfig `yaml:"telegram"`
}

// DesktopConfig toggles local popup notifications.
type DesktopConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EmailConfig wires all data required to send reminder mail.
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SMTPHost  string `yaml:"smtpHost"`
	SMTPPort  int    `yaml:"smtpPort"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// TelegramConfig wires all data required to send bot messages.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// fileConfig mirrors Config with optional sections and optional booleans, so
// a partial file only overrides the keys it actually sets and absent sections
// keep their defaults.
type fileConfig struct {
	Database      *DatabaseConfig    `yaml:"database"`
	Server        *ServerConfig      `yaml:"server"`
	Scraper       *ScraperConfig     `yaml:"scraper"`
	Scheduler     *SchedulerConfig   `yaml:"scheduler"`
	Notifications *fileNotifications `yaml:"notifications"`
	Logging       *LoggingConfig     `yaml:"logging"`
}

type fileNotifications struct {
	AdvanceDays []int         `yaml:"advanceDays"`
	Desktop     *fileToggle   `yaml:"desktop"`
	Email       *fileEmail    `yaml:"email"`
	Telegram    *fileTelegram `yaml:"telegram"`
}

type fileToggle struct {
	Enabled *bool `yaml:"enabled"`
}

type fileEmail struct {
	Enabled   *bool  `yaml:"enabled"`
	SMTPHost  string `yaml:"smtpHost"`
	SMTPPort  int    `yaml:"smtpPort"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

type fileTelegram struct {
	Enabled  *bool  `yaml:"enabled"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg fileConfig
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Notifications.AdvanceDays) == 0 {
		cfg.Notifications.AdvanceDays = defaultConfig().Notifications.AdvanceDays
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Notifications.Email.Password = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base Config, override fileConfig) Config {
	if override.Database != nil && override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Server != nil && override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Scraper != nil {
		if override.Scraper.PageLoadWaitSeconds > 0 {
			base.Scraper.PageLoadWaitSeconds = override.Scraper.PageLoadWaitSeconds
		}
		if override.Scraper.LoginWaitSeconds > 0 {
			base.Scraper.LoginWaitSeconds = override.Scraper.LoginWaitSeconds
		}
	}

	if override.Scheduler != nil {
		if override.Scheduler.ReminderHour > 0 {
			base.Scheduler.ReminderHour = override.Scheduler.ReminderHour
		}
		if override.Scheduler.Timezone != "" {
			base.Scheduler.Timezone = override.Scheduler.Timezone
		}
	}

	if override.Notifications != nil {
		mergeNotifications(&base.Notifications, override.Notifications)
	}

	if override.Logging != nil && override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeNotifications(base *NotificationConfig, override *fileNotifications) {
	if len(override.AdvanceDays) > 0 {
		base.AdvanceDays = override.AdvanceDays
	}

	if override.Desktop != nil && override.Desktop.Enabled != nil {
		base.Desktop.Enabled = *override.Desktop.Enabled
	}

	if e := override.Email; e != nil {
		if e.Enabled != nil {
			base.Email.Enabled = *e.Enabled
		}
		if e.SMTPHost != "" {
			base.Email.SMTPHost = e.SMTPHost
		}
		if e.SMTPPort > 0 {
			base.Email.SMTPPort = e.SMTPPort
		}
		if e.Sender != "" {
			base.Email.Sender = e.Sender
		}
		if e.Password != "" {
			base.Email.Password = e.Password
		}
		if e.Recipient != "" {
			base.Email.Recipient = e.Recipient
		}
	}

	if tg := override.Telegram; tg != nil {
		if tg.Enabled != nil {
			base.Telegram.Enabled = *tg.Enabled
		}
		if tg.BotToken != "" {
			base.Telegram.BotToken = tg.BotToken
		}
		if tg.ChatID != "" {
			base.Telegram.ChatID = tg.ChatID
		}
	}
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "assignments.db"},
		Server:   ServerConfig{Addr: ":8080"},
		Scraper: ScraperConfig{
			PageLoadWaitSeconds: 3,
			LoginWaitSeconds:    5,
		},
		Scheduler: SchedulerConfig{ReminderHour: 9, Timezone: defaultTimezone, location: tz},
		Notifications: NotificationConfig{
			AdvanceDays: []int{7, 3, 1},
			Desktop:     DesktopConfig{Enabled: true},
			Email: EmailConfig{
				Enabled:  false,
				SMTPHost: "smtp.gmail.com",
				SMTPPort: 587,
			},
			Telegram: TelegramConfig{Enabled: false},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
