// Package mail sends invoice emails through an SMTP relay. Delivery is an
// external collaborator; the service layer depends only on the Mailer
// interface.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a single outbound HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail over an authenticated SMTP connection.
type SMTPMailer struct {
	host     string
	port     int
	password string
}

// NewSMTPMailer creates a mailer for the given relay. The sender address is
// per-message (it comes from the caller's business settings); the relay
// password is shared deployment config.
func NewSMTPMailer(host string, port int, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, password: password}
}

// Send delivers one HTML message. The context governs nothing here beyond
// API symmetry: net/smtp has no cancellation hooks.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", msg.From, m.password, m.host)
	return smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(b.String()))
}
