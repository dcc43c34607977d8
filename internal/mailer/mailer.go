// Package mailer relays contact-form submissions over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Mailer sends contact messages through a configured SMTP relay.
type Mailer struct {
	cfg  config.MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. An incomplete MailConfig is allowed at construction;
// Send fails with a descriptive error instead of silently dropping mail.
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Send relays one contact message to the configured recipient.
func (m *Mailer) Send(msg *domain.ContactMessage) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("mail relay not configured: MAIL_SMTP_HOST, MAIL_FROM and MAIL_TO are required")
	}

	subject := msg.Subject
	if subject == "" {
		subject = "Website contact form"
	}

	body := buildBody(m.cfg, subject, msg)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := m.send(addr, a, m.cfg.From, []string{m.cfg.To}, body); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

func buildBody(cfg config.MailConfig, subject string, msg *domain.ContactMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", cfg.To)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.Email))
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")

	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so user input cannot inject extra headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
