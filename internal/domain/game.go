package domain

import (
	"encoding/json"
	"time"
)

type GameSetting struct {
	Id        int64           `json:"id"`
	PatientId UserId          `json:"patient_id"`
	Game      Game            `json:"game"`
	Settings  json.RawMessage `json:"settings"`
	Created   time.Time       `json:"created"`
	Modified  time.Time       `json:"modified"`
}

type Statistic struct {
	Id         int64           `json:"id"`
	PatientId  UserId          `json:"patient_id"`
	Game       Game            `json:"game"`
	Level      int             `json:"level"`
	Score      int64           `json:"score"`
	DurationMs int64           `json:"duration_ms"`
	PlayedAt   time.Time       `json:"played_at"`
	Data       json.RawMessage `json:"data,omitempty"`
	Created    time.Time       `json:"created"`
	Modified   time.Time       `json:"modified"`
}

type StatisticUpdate struct {
	Level      *int
	Score      *int64
	DurationMs *int64
	PlayedAt   *time.Time
	Data       json.RawMessage
}

type StatisticQuery struct {
	PatientId   UserId
	TherapistId UserId // restricts to patients of this therapist
	Game        Game
	From        *time.Time
	To          *time.Time
	Page        Page
	Ascending   bool // by played_at, newest first by default
}

type StatisticSummary struct {
	Game            Game    `json:"game"`
	Count           int64   `json:"count"`
	AvgScore        float64 `json:"avg_score"`
	MaxScore        int64   `json:"max_score"`
	TotalDurationMs int64   `json:"total_duration_ms"`
}
