// Package email implements the SMTP transport behind the verification and
// password-reset mail tasks: a thin net/smtp sender behind the Sender
// interface, so the task handlers never touch the wire protocol directly.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

// Message is a single outbound transactional email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single Message, honoring ctx's deadline where the
// underlying transport allows it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config carries the SMTP connection and message-template settings.
type Config struct {
	SmtpHost        string
	Port            int
	User            string
	Pass            string
	EnableSsl       bool
	FromEmail       string
	FromName        string
	FrontendBaseUrl string
}

// SmtpSender sends mail via net/smtp PlainAuth against cfg's host.
type SmtpSender struct {
	cfg Config
}

// NewSmtpSender builds an SmtpSender from cfg.
func NewSmtpSender(cfg Config) *SmtpSender {
	return &SmtpSender{cfg: cfg}
}

// Send delivers msg, blocking for the duration of the SMTP conversation.
// net/smtp has no context-aware dial; callers enforce their own deadline by
// running Send on a goroutine with a timeout, as the worker's mail handler
// does.
func (s *SmtpSender) Send(_ context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SmtpHost, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.SmtpHost)

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, msg.To, msg.Subject, msg.Body,
	)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// VerificationEmail builds the transactional message for an email
// verification token, linking to cfg.FrontendBaseUrl.
func (c Config) VerificationEmail(to, token string) Message {
	return Message{
		To:      to,
		Subject: "Verify your email",
		Body: fmt.Sprintf(
			"Confirm your account by visiting:\n%s/verify-email?token=%s\n\nThis link expires in 24 hours.",
			c.FrontendBaseUrl, token,
		),
	}
}

// PasswordResetEmail builds the transactional message for a password reset
// token, linking to cfg.FrontendBaseUrl.
func (c Config) PasswordResetEmail(to, token string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"Reset your password by visiting:\n%s/reset-password?token=%s\n\nThis link expires in 1 hour.",
			c.FrontendBaseUrl, token,
		),
	}
}

// sendTimeout bounds how long the detached goroutine in the worker's mail
// handler waits for net/smtp before giving up and logging failure.
const sendTimeout = 15 * time.Second

// SendTimeout returns the bound used to cap a single delivery attempt.
func SendTimeout() time.Duration { return sendTimeout }
