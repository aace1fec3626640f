package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"DeadlineAgent/internal/config"
	"DeadlineAgent/internal/ports"
)

// EmailChannel sends reminder mail over authenticated SMTP with STARTTLS.
type EmailChannel struct {
	cfg  config.EmailConfig
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.Channel = (*EmailChannel)(nil)

// NewEmailChannel builds the channel from configuration.
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg, send: smtp.SendMail}
}

// Name identifies the channel in logs.
func (e *EmailChannel) Name() string { return "email" }

// Enabled reports the configured flag.
func (e *EmailChannel) Enabled() bool { return e.cfg.Enabled }

// Send mails the reminder to the configured recipient.
func (e *EmailChannel) Send(_ context.Context, title, message string) error {
	if e.cfg.SMTPHost == "" || e.cfg.Sender == "" || e.cfg.Recipient == "" {
		return fmt.Errorf("email channel misconfigured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", e.cfg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", title)
	b.WriteString("\r\n")
	b.WriteString(message)
	b.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)
	auth := smtp.PlainAuth("", e.cfg.Sender, e.cfg.Password, e.cfg.SMTPHost)

	if err := e.send(addr, auth, e.cfg.Sender, []string{e.cfg.Recipient}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
