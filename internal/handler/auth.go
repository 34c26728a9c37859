package handler

import (
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/api"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

func (h *Handler) setAccessCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     mw.AccessTokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login returns the token in the body for API clients and sets the cookie for
// browsers.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, user, err := h.auth.Login(body.Login, body.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setAccessCookie(w, token, int(h.cfg.JwtTTL().Seconds()))
	writeOK(w, api.LoginResponse{AccessToken: token, User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAccessCookie(w, "", -1)
	writeMessage(w, "Logged out")
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body api.ForgotPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.auth.RequestPasswordReset(body.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	// same answer whether or not the address is known
	writeMessage(w, "If the address is registered, a reset code has been sent")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body api.ResetPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.auth.ResetPassword(body.Email, body.Code, body.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Password has been reset")
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body api.ChangePasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	user := mw.GetUserFromContext(r)
	if err := h.auth.ChangePassword(user.Id, body.OldPassword, body.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Password changed")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(mw.GetUserFromContext(r).Id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, user)
}
