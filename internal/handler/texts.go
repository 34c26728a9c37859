package handler

import (
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

func (h *Handler) ListErrortexts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	texts, err := h.errortexts.List(domain.ErrortextQuery{Code: q.Get("code"), Language: q.Get("language")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, texts)
}

func (h *Handler) GetErrortext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.errortexts.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, text)
}

func errortext(body api.ErrortextRequest) domain.Errortext {
	return domain.Errortext{
		Code:     body.Code,
		Language: body.Language,
		Text:     body.Text,
		Severity: domain.Severity(body.Severity),
	}
}

func (h *Handler) CreateErrortext(w http.ResponseWriter, r *http.Request) {
	var body api.ErrortextRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.errortexts.Create(errortext(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, text)
}

func (h *Handler) UpdateErrortext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.ErrortextRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.errortexts.Update(id, errortext(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, text)
}

func (h *Handler) DeleteErrortext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.errortexts.Delete(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Errortext deleted")
}

func (h *Handler) ListHelptexts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	texts, err := h.helptexts.List(domain.HelptextQuery{Page: q.Get("page"), Language: q.Get("language")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, texts)
}

func (h *Handler) GetHelptext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.helptexts.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, text)
}

func helptext(body api.HelptextRequest) domain.Helptext {
	return domain.Helptext{Name: body.Name, Page: body.Page, Language: body.Language, Markdown: body.Markdown}
}

func (h *Handler) CreateHelptext(w http.ResponseWriter, r *http.Request) {
	var body api.HelptextRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.helptexts.Create(helptext(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, text)
}

func (h *Handler) UpdateHelptext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body api.HelptextRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	text, err := h.helptexts.Update(id, helptext(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, text)
}

func (h *Handler) DeleteHelptext(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.helptexts.Delete(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Helptext deleted")
}
