package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Enabled reports whether SMTP is configured; without it notifications are
// skipped rather than failed.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

func (m *Mailer) SendRegistrationEmail(eventTitle, kind, recipient string) error {
	var subject, body string
	switch kind {
	case "registered":
		subject = "You're registered!"
		body = fmt.Sprintf("Hi!\n\nYour registration for \"%s\" is confirmed. See you there!", eventTitle)
	case "cancelled":
		subject = "Registration cancelled"
		body = fmt.Sprintf("Hi!\n\nYour registration for \"%s\" has been cancelled.", eventTitle)
	default:
		return fmt.Errorf("unknown notification kind %q", kind)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, recipient, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("recipient", recipient).Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("recipient", recipient).Str("kind", kind).Msg("email sent")
	return nil
}
