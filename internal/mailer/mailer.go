// Package mailer delivers invoice emails over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/invoicer/internal/logger"
	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by Send when required SMTP settings are absent.
var ErrNotConfigured = errors.New("mailer: SMTP settings are missing")

// Config holds SMTP settings. From falls back to User when empty.
type Config struct {
	Host string `envconfig:"SMTP_HOST"`
	Port int    `envconfig:"SMTP_PORT" default:"587"`
	User string `envconfig:"SMTP_USER"`
	Pass string `envconfig:"SMTP_PASS"`
	From string `envconfig:"SMTP_FROM"`
}

// Sender returns the effective envelope sender.
func (c Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// Missing lists the environment keys that must be set before sending.
func (c Config) Missing() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Port <= 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if c.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if c.Sender() == "" {
		missing = append(missing, "SMTP_FROM")
	}
	return missing
}

// Validate reports ErrNotConfigured naming every missing key.
func (c Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Sender delivers a single HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender sends through an authenticated STARTTLS connection.
type SMTPSender struct {
	cfg  Config
	logg *logger.Logger
}

// NewSMTPSender builds a sender. Settings are checked on each Send, so a
// partially configured server still starts.
func NewSMTPSender(cfg Config, logg *logger.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logg: logg}
}

// Send connects, upgrades with STARTTLS, authenticates and sends one message.
// Nothing is retried.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	msg, err := buildMessage(s.cfg.Sender(), to, subject, htmlBody)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Pass),
	)
	if err != nil {
		return fmt.Errorf("mailer: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"to": to, "subject": subject})
		s.logg.Info(ctx, "mail.sent")
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mailer: recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
