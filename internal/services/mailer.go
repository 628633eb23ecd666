package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	apperrors "carnet-api/internal/errors"
)

// Mailer delivers a single HTML email. Implementations own transport
// details; callers treat every send as best-effort.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer submits mail over authenticated SMTP. Credentials come
// from the process environment via config; when they are absent the
// server runs without a mailer at all (see server init).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send to %s: %v: %w", to, err, apperrors.ErrDelivery)
	}
	return nil
}
