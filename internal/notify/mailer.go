// Package notify sends transactional email to customers. Delivery is
// best-effort: a failed send is logged and never fails the operation
// that triggered it.
package notify

import (
	"fmt"

	"pizza-paradise/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// smtpSender implements Sender over SMTP.
type smtpSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   zerolog.Logger
}

// NewSMTPSender creates an SMTP-backed sender from the mail configuration.
func NewSMTPSender(cfg config.SMTPConfig, logger zerolog.Logger) Sender {
	return &smtpSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger.With().Str("component", "smtp-sender").Logger(),
	}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// noopSender implements Sender by doing nothing. Used when SMTP is not
// configured, local development included.
type noopSender struct {
	logger zerolog.Logger
}

// NewNoopSender creates a sender that logs instead of delivering.
func NewNoopSender(logger zerolog.Logger) Sender {
	return &noopSender{logger: logger.With().Str("component", "noop-sender").Logger()}
}

func (s *noopSender) Send(to, subject, htmlBody string) error {
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email delivery disabled, skipping")
	return nil
}
