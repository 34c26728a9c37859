package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

func (h *Handler) ListGameSettings(w http.ResponseWriter, r *http.Request) {
	patientId, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.games.Settings(mw.GetUserFromContext(r), patientId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, settings)
}

func (h *Handler) GetGameSetting(w http.ResponseWriter, r *http.Request) {
	patientId, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setting, err := h.games.Setting(mw.GetUserFromContext(r), patientId, chi.URLParam(r, "game"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, setting)
}

func (h *Handler) SaveGameSetting(w http.ResponseWriter, r *http.Request) {
	patientId, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.SaveGameSettingRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	setting, err := h.games.SaveSetting(mw.GetUserFromContext(r), patientId, chi.URLParam(r, "game"), body.Settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, setting)
}

func (h *Handler) DeleteGameSetting(w http.ResponseWriter, r *http.Request) {
	patientId, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.games.DeleteSetting(mw.GetUserFromContext(r), patientId, chi.URLParam(r, "game")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Game setting deleted")
}

// statisticQuery reads the filters shared by the list and summary endpoints.
func statisticQuery(r *http.Request) (domain.StatisticQuery, error) {
	var q domain.StatisticQuery
	var err error
	if q.PatientId, err = int64Query(r, "patient_id"); err != nil {
		return q, err
	}
	if q.From, err = timeQuery(r, "from"); err != nil {
		return q, err
	}
	if q.To, err = timeQuery(r, "to"); err != nil {
		return q, err
	}
	if q.Page, err = pageQuery(r); err != nil {
		return q, err
	}
	q.Game = r.URL.Query().Get("game")
	switch r.URL.Query().Get("order") {
	case "", "desc":
	case "asc":
		q.Ascending = true
	default:
		return q, errors.BadRequest("Invalid order: must be asc or desc")
	}
	return q, nil
}

func (h *Handler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	q, err := statisticQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.games.Statistics(mw.GetUserFromContext(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, stats)
}

func (h *Handler) StatisticSummary(w http.ResponseWriter, r *http.Request) {
	q, err := statisticQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.games.Summary(mw.GetUserFromContext(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, summary)
}

func (h *Handler) CreateStatistic(w http.ResponseWriter, r *http.Request) {
	var body api.CreateStatisticRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	st := domain.Statistic{
		PatientId:  body.PatientId,
		Game:       body.Game,
		Level:      body.Level,
		Score:      body.Score,
		DurationMs: body.DurationMs,
		Data:       body.Data,
	}
	if body.PlayedAt != nil {
		st.PlayedAt = body.PlayedAt.UTC()
	}
	created, err := h.games.RecordStatistic(mw.GetUserFromContext(r), st)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, created)
}

func (h *Handler) GetStatistic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.games.Statistic(mw.GetUserFromContext(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, st)
}

func (h *Handler) UpdateStatistic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.UpdateStatisticRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	upd := domain.StatisticUpdate{
		Level:      body.Level,
		Score:      body.Score,
		DurationMs: body.DurationMs,
		PlayedAt:   body.PlayedAt,
		Data:       body.Data,
	}
	st, err := h.games.UpdateStatistic(mw.GetUserFromContext(r), id, upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, st)
}

func (h *Handler) DeleteStatistic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.games.DeleteStatistic(mw.GetUserFromContext(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Statistic deleted")
}
