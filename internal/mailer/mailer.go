package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"devcamper/internal/config"
)

// Email represents an email message.
type Email struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers emails.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

// New returns an SMTP sender, or a LogMailer when no SMTP host is configured.
func New(logger *zerolog.Logger, cfg config.SMTPConfig) Sender {
	if cfg.Host == "" {
		logger.Warn().Msg("SMTP_HOST not set, emails will only be logged")
		return &LogMailer{logger: logger}
	}
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send sends a single plain text email.
func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	logger *zerolog.Logger
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	m.logger.Info().
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.Body).
		Msg("email not sent, SMTP disabled")
	return nil
}
