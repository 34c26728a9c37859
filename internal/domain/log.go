package domain

import "time"

type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) Valid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

type LogSource string

const (
	LogSourceServer LogSource = "server"
	LogSourceClient LogSource = "client"
)

type LogEntry struct {
	Id      int64     `json:"id"`
	UserId  *UserId   `json:"user_id,omitempty"`
	Level   LogLevel  `json:"level"`
	Source  LogSource `json:"source"`
	Method  string    `json:"method"`
	Url     string    `json:"url"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

type LogQuery struct {
	Level  LogLevel
	Source LogSource
	UserId UserId
	From   *time.Time
	To     *time.Time
	Page   Page
}

type SmtpStatus string

const (
	SmtpSent   SmtpStatus = "sent"
	SmtpFailed SmtpStatus = "failed"
)

type SmtpLog struct {
	Id        int64      `json:"id"`
	Recipient Email      `json:"recipient"`
	Subject   string     `json:"subject"`
	Status    SmtpStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	Created   time.Time  `json:"created"`
}

type SmtpLogQuery struct {
	Status SmtpStatus
	Page   Page
}
