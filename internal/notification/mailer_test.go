package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/config"
	"tradehub-be/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailer(send sendFunc) *SMTPMailer {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: "587", User: "u", Password: "p", From: "no-reply@example.com"})
	m.send = send
	m.retry = retry.Policy{Attempts: 2, BaseBackoff: time.Millisecond}
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func TestSMTPMailer_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("composes message", func(t *testing.T) {
		var (
			gotAddr string
			gotTo   []string
			gotMsg  string
		)
		m := testMailer(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, string(msg)
			assert.Equal(t, "no-reply@example.com", from)
			return nil
		})

		require.NoError(t, m.Send(ctx, Email{To: "buyer@example.com", Subject: "Hello", Body: "line1\nline2"}))
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, []string{"buyer@example.com"}, gotTo)
		assert.Contains(t, gotMsg, "Subject: Hello\r\n")
		assert.Contains(t, gotMsg, "Date: Fri, 02 Jan 2026 03:04:05 +0000\r\n")
		assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\nline1\r\nline2"))
	})

	t.Run("retries then gives up", func(t *testing.T) {
		calls := 0
		m := testMailer(func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return errors.New("connection refused")
		})

		err := m.Send(ctx, Email{To: "buyer@example.com", Subject: "x"})
		assert.ErrorIs(t, err, apperr.ErrInfrastructure)
		assert.Equal(t, 2, calls)
	})

	t.Run("rejects header injection", func(t *testing.T) {
		m := testMailer(func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("must not send")
			return nil
		})
		err := m.Send(ctx, Email{To: "a@example.com\r\nBcc: b@example.com", Subject: "x"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Email{To: "a@example.com"}))
}
