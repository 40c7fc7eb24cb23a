// Package mail defines the outbound email contract and its SMTP transport.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a fully prepared outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer delivers messages. The API process satisfies it with a queue
// enqueuer; the worker process satisfies it with SMTPMailer.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages over plain SMTP (Mailpit or a relay).
type SMTPMailer struct {
	addr string
}

// NewSMTPMailer constructs an SMTPMailer for host:port.
func NewSMTPMailer(host string, port int) *SMTPMailer {
	return &SMTPMailer{addr: fmt.Sprintf("%s:%d", host, port)}
}

// Send delivers a single HTML message.
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

	if err := smtp.SendMail(m.addr, nil, msg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("mail: send via %s: %w", m.addr, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
