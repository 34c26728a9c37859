package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/domain"
	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
)

func TestLoginHandler(t *testing.T) {
	t.Run("success sets the cookie", func(t *testing.T) {
		auth := &MockAuthService{MockLogin: func(identifier, password string) (string, domain.User, error) {
			assert.Equal(t, "anna@example.com", identifier)
			assert.Equal(t, "secret123", password)
			return "signed.jwt.token", domain.User{Id: 7, Role: domain.RoleTherapist}, nil
		}}
		h := New(Services{Auth: auth}, nil, testConfig())

		req := createRequest(t, http.MethodPost, "/auth/login", []byte(`{"login":"anna@example.com","password":"secret123"}`), nil)
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &resp))
		assert.Equal(t, "signed.jwt.token", resp.AccessToken)
		assert.Equal(t, domain.UserId(7), resp.User.Id)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, mw.AccessTokenCookie, cookies[0].Name)
		assert.Equal(t, "signed.jwt.token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)
	})

	t.Run("missing password", func(t *testing.T) {
		called := false
		auth := &MockAuthService{MockLogin: func(string, string) (string, domain.User, error) {
			called = true
			return "", domain.User{}, nil
		}}
		h := New(Services{Auth: auth}, nil, testConfig())

		rr := httptest.NewRecorder()
		h.Login(rr, createRequest(t, http.MethodPost, "/auth/login", []byte(`{"login":"anna"}`), nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{"Invalid fields: password"}, decodeEnvelope(t, rr).Messages)
		assert.False(t, called)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := New(Services{Auth: &MockAuthService{}}, nil, testConfig())
		rr := httptest.NewRecorder()
		h.Login(rr, createRequest(t, http.MethodPost, "/auth/login", []byte(`{"login":`), nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("locked account", func(t *testing.T) {
		auth := &MockAuthService{MockLogin: func(string, string) (string, domain.User, error) {
			return "", domain.User{}, internal_errors.Forbidden("Account is locked")
		}}
		h := New(Services{Auth: auth}, nil, testConfig())

		rr := httptest.NewRecorder()
		h.Login(rr, createRequest(t, http.MethodPost, "/auth/login", []byte(`{"login":"anna","password":"x"}`), nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, []string{"Account is locked"}, decodeEnvelope(t, rr).Messages)
		assert.Empty(t, rr.Result().Cookies())
	})
}

func TestLogoutHandler(t *testing.T) {
	h := New(Services{}, nil, testConfig())
	rr := httptest.NewRecorder()
	h.Logout(rr, createRequest(t, http.MethodPost, "/auth/logout", nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestForgotPasswordHandler(t *testing.T) {
	var requested string
	auth := &MockAuthService{MockRequestPasswordReset: func(email domain.Email) error {
		requested = email
		return nil
	}}
	h := New(Services{Auth: auth}, nil, testConfig())

	rr := httptest.NewRecorder()
	h.ForgotPassword(rr, createRequest(t, http.MethodPost, "/auth/password/forgot", []byte(`{"email":"anna@example.com"}`), nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "anna@example.com", requested)

	rr = httptest.NewRecorder()
	h.ForgotPassword(rr, createRequest(t, http.MethodPost, "/auth/password/forgot", []byte(`{"email":"not-an-address"}`), nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResetPasswordHandler(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"success", `{"email":"a@b.de","code":"123456","password":"new-password"}`, nil, http.StatusOK},
		{"non numeric code", `{"email":"a@b.de","code":"12ab","password":"new-password"}`, nil, http.StatusBadRequest},
		{"short password", `{"email":"a@b.de","code":"123456","password":"short"}`, nil, http.StatusBadRequest},
		{"expired code", `{"email":"a@b.de","code":"123456","password":"new-password"}`, internal_errors.BadRequest("Reset code expired"), http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &MockAuthService{MockResetPassword: func(domain.Email, string, string) error { return tc.serviceErr }}
			h := New(Services{Auth: auth}, nil, testConfig())

			rr := httptest.NewRecorder()
			h.ResetPassword(rr, createRequest(t, http.MethodPost, "/auth/password/reset", []byte(tc.body), nil))
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestChangePasswordHandler(t *testing.T) {
	var gotId domain.UserId
	auth := &MockAuthService{MockChangePassword: func(userId domain.UserId, oldPassword, newPassword string) error {
		gotId = userId
		assert.Equal(t, "old-password", oldPassword)
		assert.Equal(t, "new-password", newPassword)
		return nil
	}}
	h := New(Services{Auth: auth}, nil, testConfig())

	body := []byte(`{"old_password":"old-password","new_password":"new-password"}`)
	rr := httptest.NewRecorder()
	h.ChangePassword(rr, createRequest(t, http.MethodPost, "/auth/password/change", body, therapistUser))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, therapistUser.Id, gotId)
}

func TestMeHandler(t *testing.T) {
	h := New(Services{Auth: &MockAuthService{}}, nil, testConfig())
	rr := httptest.NewRecorder()
	h.Me(rr, createRequest(t, http.MethodGet, "/auth/me", nil, patientUser))

	require.Equal(t, http.StatusOK, rr.Code)
	var user domain.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &user))
	assert.Equal(t, patientUser.Id, user.Id)
}
