package handler

import (
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/domain"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	var q domain.LogQuery
	var err error
	if q.Page, err = pageQuery(r); err != nil {
		h.writeError(w, r, err)
		return
	}
	if q.UserId, err = int64Query(r, "user_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if q.From, err = timeQuery(r, "from"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if q.To, err = timeQuery(r, "to"); err != nil {
		h.writeError(w, r, err)
		return
	}
	q.Level = domain.LogLevel(r.URL.Query().Get("level"))
	q.Source = domain.LogSource(r.URL.Query().Get("source"))

	logs, err := h.logs.List(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, logs)
}

// CreateLog stores a log entry reported by the client app.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var body api.CreateLogRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry := domain.LogEntry{
		Level:   domain.LogLevel(body.Level),
		Method:  body.Method,
		Url:     body.Url,
		Message: body.Message,
	}
	if u := mw.GetUserFromContext(r); u != nil {
		entry.UserId = &u.Id
	}
	created, err := h.logs.Record(entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, created)
}

func (h *Handler) ListSmtpLogs(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	logs, err := h.logs.SmtpLogs(domain.SmtpLogQuery{
		Status: domain.SmtpStatus(r.URL.Query().Get("status")),
		Page:   page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, logs)
}
