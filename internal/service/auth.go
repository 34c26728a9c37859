package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/middleware/metrics"
)

type AuthService interface {
	Login(identifier, password string) (string, domain.User, error)
	RequestPasswordReset(email domain.Email) error
	ResetPassword(email domain.Email, code, newPassword string) error
	ChangePassword(userId domain.UserId, oldPassword, newPassword string) error
	Me(userId domain.UserId) (domain.User, error)
}

type AuthStorage interface {
	User(id domain.UserId) (domain.User, error)
	UserByEmail(email domain.Email) (domain.User, error)
	UserByLogin(identifier string) (domain.User, error)
	SaveLogin(id domain.UserId, at time.Time) error
	RecordFailedLogin(id domain.UserId, maxFailed int) (domain.LoginFailure, error)
	SaveResetData(data domain.ResetData) error
	ResetData(id domain.UserId) (domain.ResetData, error)
	SetPassword(id domain.UserId, hash string) error
}

type Auth struct {
	storage     AuthStorage
	email       Email
	jwt         Jwt
	cfg         *config.Public
	statusCache *StatusCache
	now         func() time.Time
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, cfg *config.Public, statusCache *StatusCache) *Auth {
	return &Auth{
		storage:     storage,
		email:       email,
		jwt:         jwt,
		cfg:         cfg,
		statusCache: statusCache,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var (
	errInvalidCredentials = errors.Unauthorized("Invalid credentials")
	errWrongResetCode     = errors.BadRequest("Wrong reset code")
)

// Compared against when the login is unknown so both paths cost one bcrypt check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mindgames-dummy-password"), bcrypt.DefaultCost)

// Login accepts an email address or a username. Unknown logins and wrong
// passwords are indistinguishable to the caller.
func (a *Auth) Login(identifier, password string) (string, domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = normalizeEmail(identifier)
	}

	user, err := a.storage.UserByLogin(identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			metrics.LoginAttempts.WithLabelValues("failed").Inc()
			return "", domain.User{}, errInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", domain.User{}, a.failedLogin(user)
	}

	switch user.Status {
	case domain.UserActive:
	case domain.UserLocked:
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return "", domain.User{}, errors.Forbidden("Account is locked")
	default:
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return "", domain.User{}, errors.Forbidden("Account is not active")
	}

	now := a.now()
	if err := a.storage.SaveLogin(user.Id, now); err != nil {
		return "", domain.User{}, err
	}
	user.LastLogin = &now
	user.FailedLogins = 0

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, user, nil
}

// failedLogin counts the attempt and locks an active account once the limit
// is reached. The count is kept by storage so concurrent attempts are not
// lost.
func (a *Auth) failedLogin(user domain.User) error {
	metrics.LoginAttempts.WithLabelValues("failed").Inc()
	if user.Status != domain.UserActive {
		return errInvalidCredentials
	}

	failure, err := a.storage.RecordFailedLogin(user.Id, a.cfg.MaxFailedLogins)
	if err != nil {
		return err
	}
	if failure.Locked {
		logger.Log.Warn("account locked after failed logins", "user_id", user.Id, "failed_logins", failure.FailedLogins)
		a.statusCache.refresh("account locked")
		return errors.Forbidden("Account is locked")
	}
	return errInvalidCredentials
}

// RequestPasswordReset mails a numeric code. Unknown addresses succeed
// silently.
func (a *Auth) RequestPasswordReset(email domain.Email) error {
	email = normalizeEmail(email)

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Debug("password reset for unknown email")
			return nil
		}
		return err
	}

	prev, err := a.storage.ResetData(user.Id)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err == nil && prev.Expires.After(a.now()) {
		diff := prev.Expires.Sub(a.now())
		return errors.TooEarly(fmt.Sprintf("Previous reset code is still valid. Retry after %.0fs", diff.Seconds()))
	}

	code, err := GenerateCode(a.cfg.ResetCodeLen)
	if err != nil {
		return err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash reset code", "error", err)
		return err
	}
	data := domain.ResetData{UserId: user.Id, CodeHash: string(codeHash), Expires: a.now().Add(a.cfg.ResetCodeTTL)}
	if err := a.storage.SaveResetData(data); err != nil {
		return err
	}

	m := resetCodeMail(user.Language, code, a.cfg.ResetCodeTTL)
	return a.email.Send(user.Email, m.subject, m.body)
}

func (a *Auth) ResetPassword(email domain.Email, code, newPassword string) error {
	user, err := a.storage.UserByEmail(normalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return errWrongResetCode
		}
		return err
	}

	data, err := a.storage.ResetData(user.Id)
	if err != nil {
		if errors.IsNotFound(err) {
			return errWrongResetCode
		}
		return err
	}
	if data.Expires.Before(a.now()) {
		return errors.BadRequest("Reset code expired")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(data.CodeHash), []byte(code)); err != nil {
		return errWrongResetCode
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := a.storage.SetPassword(user.Id, hash); err != nil {
		return err
	}
	if user.Status == domain.UserLocked {
		a.statusCache.refresh("account unlocked")
	}
	return nil
}

func (a *Auth) ChangePassword(userId domain.UserId, oldPassword, newPassword string) error {
	user, err := a.storage.User(userId)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(oldPassword)); err != nil {
		return errors.BadRequest("Wrong password")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return a.storage.SetPassword(userId, hash)
}

func (a *Auth) Me(userId domain.UserId) (domain.User, error) {
	return a.storage.User(userId)
}
