package handler

import (
	"context"
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/service"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Therapists service.TherapistService
	Patients   service.PatientService
	Games      service.GameService
	Errortexts service.ErrortextService
	Helptexts  service.HelptextService
	Logs       service.LogService
}

type Handler struct {
	auth       service.AuthService
	users      service.UserService
	therapists service.TherapistService
	patients   service.PatientService
	games      service.GameService
	errortexts service.ErrortextService
	helptexts  service.HelptextService
	logs       service.LogService
	health     HealthChecker
	cfg        *config.Config
}

func New(s Services, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:       s.Auth,
		users:      s.Users,
		therapists: s.Therapists,
		patients:   s.Patients,
		games:      s.Games,
		errortexts: s.Errortexts,
		helptexts:  s.Helptexts,
		logs:       s.Logs,
		health:     health,
		cfg:        cfg,
	}
}

// writeError answers with the error envelope. Internal errors are logged and
// persisted as server log entries first.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.StatusCode(err) >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if h.logs != nil {
			var userId *domain.UserId
			if u := mw.GetUserFromContext(r); u != nil {
				userId = &u.Id
			}
			h.logs.ServerError(userId, r.Method, r.URL.RequestURI(), err.Error())
		}
	}
	utils.WriteErrorAndStatusCode(w, err)
}

func writeOK(w http.ResponseWriter, data any) {
	utils.WriteJSON(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data any) {
	utils.WriteJSON(w, http.StatusCreated, data)
}

func writeMessage(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, http.StatusOK, nil, message)
}
