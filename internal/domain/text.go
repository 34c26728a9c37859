package domain

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

type Errortext struct {
	Id       int64     `json:"id"`
	Code     string    `json:"code"`
	Language Language  `json:"language"`
	Text     string    `json:"text"`
	Severity Severity  `json:"severity"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

type ErrortextQuery struct {
	Code     string
	Language Language
}

type Helptext struct {
	Id       int64     `json:"id"`
	Name     string    `json:"name"`
	Page     string    `json:"page"`
	Language Language  `json:"language"`
	Markdown string    `json:"markdown"`
	HTML     string    `json:"html,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

type HelptextQuery struct {
	Page     string
	Language Language
}
