package notification

import (
	"context"
	"net"
	"net/smtp"
	"strings"
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/config"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/retry"

	"go.uber.org/zap"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, e Email) error {
	logger.FromCtx(ctx).Info("email (not sent, log mailer)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.Int("body_bytes", len(e.Body)),
	)
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	cfg   config.SMTPConfig
	send  sendFunc
	retry retry.Policy
	now   func() time.Time
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, retry: retry.Default, now: time.Now}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if strings.ContainsAny(e.To, "\r\n") || strings.ContainsAny(e.Subject, "\r\n") {
		return apperr.Validation("email", "recipient and subject must be single-line")
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	msg := m.compose(e)

	return retry.Do(ctx, m.retry, "smtp send", func() error {
		return m.send(addr, auth, m.cfg.From, []string{e.To}, msg)
	})
}

func (m *SMTPMailer) compose(e Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + e.Subject + "\r\n")
	b.WriteString("Date: " + m.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(e.Body, "\n", "\r\n"))
	return []byte(b.String())
}
