// Package email sends plain text mails over SMTP and records every attempt.
package email

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type Sender interface {
	Send(recipientEmail, subject, body string) error
}

// New returns the SMTP sender, or a sender that only logs when mail is
// disabled in the config.
func New(cfg *config.Email) Sender {
	if cfg.Disabled {
		return Disabled{}
	}
	return NewSMTP(cfg)
}

type SMTP struct {
	config *config.Email
	auth   smtp.Auth
}

func NewSMTP(cfg *config.Email) *SMTP {
	return &SMTP{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer),
	}
}

func IsCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.BadRequest("Invalid email address")
	}
	return nil
}

func (e *SMTP) Send(recipientEmail, subject, body string) error {
	msg := e.buildMessage(recipientEmail, subject, body, time.Now())
	address := net.JoinHostPort(e.config.SMTPServer, fmt.Sprint(e.config.SMTPPort))

	// Port 465 = implicit TLS, otherwise STARTTLS
	if e.config.SMTPPort == 465 {
		return e.sendImplicitTLS(address, recipientEmail, msg)
	}
	return e.sendSTARTTLS(address, recipientEmail, msg)
}

func (e *SMTP) timeout() time.Duration {
	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// sendImplicitTLS sends over a connection that is TLS from the start (port 465).
func (e *SMTP) sendImplicitTLS(address, recipientEmail string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: e.config.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: e.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server (implicit TLS): %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return e.sendViaClient(client, recipientEmail, msg)
}

// sendSTARTTLS upgrades a plain connection to TLS (port 587).
func (e *SMTP) sendSTARTTLS(address, recipientEmail string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, e.timeout())
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return e.sendViaClient(client, recipientEmail, msg)
}

// sendViaClient performs auth, sets sender and recipient and sends the message.
func (e *SMTP) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(e.config.Username); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(recipientEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (e *SMTP) buildMessage(recipient, subject, body string, now time.Time) []byte {
	domain := "localhost"
	if _, host, found := strings.Cut(e.config.Username, "@"); found {
		domain = host
	}

	return fmt.Appendf(nil,
		"Message-ID: <%s@%s>\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		uuid.NewString(), domain,
		now.Format(time.RFC1123Z),
		recipient,
		mime.QEncoding.Encode("utf-8", e.config.SenderName), e.config.Username,
		mime.QEncoding.Encode("utf-8", subject),
		strings.ReplaceAll(body, "\n", "\r\n"),
	)
}

// Disabled drops mails after logging them. Used in development.
type Disabled struct{}

func (Disabled) Send(recipientEmail, subject, body string) error {
	logger.Log.Info("mail disabled, not sending", "component", "email", "recipient", recipientEmail, "subject", subject)
	return nil
}
