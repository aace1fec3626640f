package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DeadlineAgent/internal/config"
	"DeadlineAgent/internal/ports"
)

// TelegramChannel posts reminders to a chat via the bot API.
type TelegramChannel struct {
	enabled  bool
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Channel = (*TelegramChannel)(nil)

// NewTelegramChannel registers bot token and chat identifier.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		enabled:  cfg.Enabled,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Name identifies the channel in logs.
func (t *TelegramChannel) Name() string { return "telegram" }

// Enabled reports the configured flag.
func (t *TelegramChannel) Enabled() bool { return t.enabled }

// Send posts a plain-text message to the configured chat.
func (t *TelegramChannel) Send(ctx context.Context, title, message string) error {
	if t.botToken == "" || t.chatID == "" || t.client == nil {
		return fmt.Errorf("telegram channel misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", title+"\n\n"+message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
