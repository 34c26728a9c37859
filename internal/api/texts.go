package api

type ErrortextRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Language string `json:"language" validate:"required,min=2,max=8"`
	Text     string `json:"text" validate:"required,max=16000"`
	Severity string `json:"severity" validate:"omitempty,oneof=info warning error"`
}

type HelptextRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Page     string `json:"page" validate:"required,max=100"`
	Language string `json:"language" validate:"required,min=2,max=8"`
	Markdown string `json:"markdown" validate:"required,max=16000"`
}

type CreateLogRequest struct {
	Level   string `json:"level" validate:"required,oneof=debug info warn error"`
	Message string `json:"message" validate:"required"`
	Method  string `json:"method" validate:"max=10"`
	Url     string `json:"url" validate:"max=2048"`
}
