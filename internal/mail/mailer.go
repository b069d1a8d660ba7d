// Package mail implements the notification gateway: delivery of reminder
// emails over SMTP. The Mailer interface is what the service layer depends
// on; SMTPMailer is the production implementation.
package mail

import (
	"fmt"
	"net/smtp"
)

// Mailer sends a single plain-text email. Implementations may block on
// network I/O and may fail; callers decide how a failure is recorded.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay using PLAIN auth
// (auth is skipped when Username is empty, for local relays).
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// Send composes an RFC 5322 message and submits it to the configured relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := m.Host + ":" + m.Port

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	msg := BuildMessage(m.From, to, subject, body)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// BuildMessage assembles the raw message bytes with minimal headers.
// CRLF line endings per RFC 5322.
func BuildMessage(from, to, subject, body string) []byte {
	return []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")
}
