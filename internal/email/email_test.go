package email

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
)

type MockSender struct {
	SendFunc func(recipientEmail, subject, body string) error
}

func (m *MockSender) Send(recipientEmail, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, body)
	}
	return nil
}

type MockSmtpLogStorage struct {
	CreateSmtpLogFunc func(l domain.SmtpLog) (int64, error)
}

func (m *MockSmtpLogStorage) CreateSmtpLog(l domain.SmtpLog) (int64, error) {
	if m.CreateSmtpLogFunc != nil {
		return m.CreateSmtpLogFunc(l)
	}
	return 1, nil
}

func TestRecorder(t *testing.T) {
	t.Run("records a sent mail", func(t *testing.T) {
		var logged domain.SmtpLog
		storage := &MockSmtpLogStorage{CreateSmtpLogFunc: func(l domain.SmtpLog) (int64, error) {
			logged = l
			return 1, nil
		}}
		r := NewRecorder(&MockSender{}, storage)

		require.NoError(t, r.Send("a@example.com", "Hello", "body"))
		assert.Equal(t, domain.SmtpLog{Recipient: "a@example.com", Subject: "Hello", Status: domain.SmtpSent}, logged)
	})

	t.Run("records a failed mail and returns the error", func(t *testing.T) {
		sendErr := errors.New("connection refused")
		var logged domain.SmtpLog
		storage := &MockSmtpLogStorage{CreateSmtpLogFunc: func(l domain.SmtpLog) (int64, error) {
			logged = l
			return 1, nil
		}}
		r := NewRecorder(&MockSender{SendFunc: func(string, string, string) error { return sendErr }}, storage)

		err := r.Send("a@example.com", "Hello", "body")
		assert.ErrorIs(t, err, sendErr)
		assert.Equal(t, domain.SmtpFailed, logged.Status)
		assert.Equal(t, "connection refused", logged.Error)
	})

	t.Run("storage failure does not fail the send", func(t *testing.T) {
		storage := &MockSmtpLogStorage{CreateSmtpLogFunc: func(l domain.SmtpLog) (int64, error) {
			return 0, errors.New("db down")
		}}
		r := NewRecorder(&MockSender{}, storage)
		assert.NoError(t, r.Send("a@example.com", "Hello", "body"))
	})
}

func TestBuildMessage(t *testing.T) {
	e := NewSMTP(&config.Email{Username: "noreply@mindgames.example", SenderName: "Mind Games"})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	msg := string(e.buildMessage("p@example.com", "Passwort zurücksetzen", "line1\nline2", now))

	assert.Contains(t, msg, "To: p@example.com\r\n")
	assert.Contains(t, msg, "From: Mind Games <noreply@mindgames.example>\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?Passwort_zur=C3=BCcksetzen?=\r\n")
	assert.Contains(t, msg, "@mindgames.example>\r\n")
	assert.Contains(t, msg, "Date: "+now.Format(time.RFC1123Z))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline1\r\nline2"))
}

func TestNewHonoursDisabled(t *testing.T) {
	assert.IsType(t, Disabled{}, New(&config.Email{Disabled: true}))
	assert.IsType(t, &SMTP{}, New(&config.Email{SMTPServer: "smtp.example.com", SMTPPort: 587}))
	assert.NoError(t, Disabled{}.Send("a@example.com", "s", "b"))
}

func TestIsCorrect(t *testing.T) {
	assert.NoError(t, IsCorrect("a@example.com"))
	err := IsCorrect("not an address")
	assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
}
