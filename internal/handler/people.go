package handler

import (
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/domain"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

func userUpdate(req api.UpdateUserRequest) domain.UserUpdate {
	upd := domain.UserUpdate{Email: req.Email, Username: req.Username, Language: req.Language}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		upd.Status = &status
	}
	return upd
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	users, err := h.users.List(domain.UserQuery{
		Role:   domain.Role(q.Get("role")),
		Status: domain.UserStatus(q.Get("status")),
		Search: q.Get("q"),
		Page:   page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.users.Get(mw.GetUserFromContext(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.UpdateUserRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.users.Update(mw.GetUserFromContext(r), id, userUpdate(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.users.Delete(mw.GetUserFromContext(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "User deleted")
}

func (h *Handler) RegisterTherapist(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterTherapistRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	therapist, err := h.therapists.Register(
		domain.User{Email: body.Email, Username: body.Username, Language: body.Language},
		body.Password,
		domain.Therapist{Firstname: body.Firstname, Lastname: body.Lastname, Phone: body.Phone, Institution: body.Institution},
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, therapist, "Registration received. The account is activated after review")
}

func (h *Handler) ListTherapists(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	therapists, err := h.therapists.List(domain.TherapistQuery{
		Status: domain.TherapistStatus(q.Get("status")),
		Search: q.Get("q"),
		Page:   page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, therapists)
}

func (h *Handler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	therapist, err := h.therapists.Get(mw.GetUserFromContext(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, therapist)
}

func (h *Handler) UpdateTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.UpdateTherapistRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	upd := domain.TherapistUpdate{
		Firstname:   body.Firstname,
		Lastname:    body.Lastname,
		Phone:       body.Phone,
		Institution: body.Institution,
	}
	if body.Status != nil {
		status := domain.TherapistStatus(*body.Status)
		upd.Status = &status
	}
	therapist, err := h.therapists.Update(mw.GetUserFromContext(r), id, upd, domain.UserUpdate{Language: body.Language})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, therapist)
}

func (h *Handler) DeleteTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.therapists.Delete(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Therapist deleted")
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePatientRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	birthdate, err := parseDate(body.Birthdate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	patient, err := h.patients.Create(
		mw.GetUserFromContext(r),
		domain.User{Email: body.Email, Username: body.Username, Language: body.Language},
		body.Password,
		domain.Patient{
			TherapistId: body.TherapistId,
			Firstname:   body.Firstname,
			Lastname:    body.Lastname,
			Birthdate:   birthdate,
			Info:        body.Info,
		},
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, patient)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	therapistId, err := int64Query(r, "therapist_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	patients, err := h.patients.List(mw.GetUserFromContext(r), domain.PatientQuery{
		TherapistId: therapistId,
		Search:      r.URL.Query().Get("q"),
		Page:        page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, patients)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	patient, err := h.patients.Get(mw.GetUserFromContext(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, patient)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.UpdatePatientRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	upd := domain.PatientUpdate{
		TherapistId: body.TherapistId,
		Firstname:   body.Firstname,
		Lastname:    body.Lastname,
		Info:        body.Info,
	}
	if body.Birthdate != nil {
		if upd.Birthdate, err = parseDate(*body.Birthdate); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	patient, err := h.patients.Update(mw.GetUserFromContext(r), id, upd, domain.UserUpdate{Language: body.Language})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, patient)
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.patients.Delete(mw.GetUserFromContext(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Patient deleted")
}
