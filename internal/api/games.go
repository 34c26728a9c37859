package api

import (
	"encoding/json"
	"time"
)

type SaveGameSettingRequest struct {
	Settings json.RawMessage `json:"settings" validate:"required"`
}

type CreateStatisticRequest struct {
	// Defaults to the caller for patients
	PatientId  int64           `json:"patient_id" validate:"omitempty,min=1"`
	Game       string          `json:"game" validate:"required,max=64"`
	Level      int             `json:"level" validate:"min=0"`
	Score      int64           `json:"score"`
	DurationMs int64           `json:"duration_ms" validate:"min=0"`
	PlayedAt   *time.Time      `json:"played_at"`
	Data       json.RawMessage `json:"data"`
}

type UpdateStatisticRequest struct {
	Level      *int            `json:"level" validate:"omitempty,min=0"`
	Score      *int64          `json:"score"`
	DurationMs *int64          `json:"duration_ms" validate:"omitempty,min=0"`
	PlayedAt   *time.Time      `json:"played_at"`
	Data       json.RawMessage `json:"data"`
}
