package email

import (
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/middleware/metrics"
)

type SmtpLogStorage interface {
	CreateSmtpLog(l domain.SmtpLog) (int64, error)
}

// Recorder wraps a Sender and stores an smtp log row for every attempt.
type Recorder struct {
	next    Sender
	storage SmtpLogStorage
}

func NewRecorder(next Sender, storage SmtpLogStorage) *Recorder {
	return &Recorder{next: next, storage: storage}
}

func (r *Recorder) Send(recipientEmail, subject, body string) error {
	sendErr := r.next.Send(recipientEmail, subject, body)

	entry := domain.SmtpLog{Recipient: recipientEmail, Subject: subject, Status: domain.SmtpSent}
	if sendErr != nil {
		entry.Status = domain.SmtpFailed
		entry.Error = sendErr.Error()
		logger.Log.Error("failed to send mail", "component", "email", "recipient", recipientEmail, "error", sendErr)
	}
	metrics.MailsSent.WithLabelValues(string(entry.Status)).Inc()

	// a lost log row must not turn a delivered mail into an error
	if _, err := r.storage.CreateSmtpLog(entry); err != nil {
		logger.Log.Error("failed to record smtp log", "component", "email", "error", err)
	}
	return sendErr
}
