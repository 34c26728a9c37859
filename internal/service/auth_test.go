package service

import (
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindgames-dev/mindgames/internal/domain"
	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
)

func mustHash(t *testing.T, s string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestAuth(storage *MockStorage, email *MockEmail, now time.Time) *Auth {
	a := NewAuth(storage, email, &MockJwt{}, testConfig(), NewStatusCache(storage))
	a.now = func() time.Time { return now }
	return a
}

func TestLogin(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	hash := mustHash(t, "password123")

	activeUser := func() domain.User {
		return domain.User{Id: 5, Email: "anna@example.com", Username: "anna", PassHash: hash, Role: domain.RoleTherapist, Status: domain.UserActive}
	}

	t.Run("success with email resets counter", func(t *testing.T) {
		var lookedUp string
		var savedId domain.UserId
		var savedAt time.Time
		storage := &MockStorage{
			UserByLoginFunc: func(identifier string) (domain.User, error) {
				lookedUp = identifier
				u := activeUser()
				u.FailedLogins = 2
				return u, nil
			},
			SaveLoginFunc: func(id domain.UserId, at time.Time) error {
				savedId, savedAt = id, at
				return nil
			},
		}
		token, user, err := newTestAuth(storage, &MockEmail{}, now).Login("  Anna@Example.com ", "password123")

		require.NoError(t, err)
		assert.Equal(t, "test_token", token)
		assert.Equal(t, "anna@example.com", lookedUp)
		assert.Equal(t, domain.UserId(5), savedId)
		assert.Equal(t, now, savedAt)
		assert.Equal(t, 0, user.FailedLogins)
		require.NotNil(t, user.LastLogin)
		assert.Equal(t, now, *user.LastLogin)
	})

	t.Run("username is not lowercased", func(t *testing.T) {
		var lookedUp string
		storage := &MockStorage{UserByLoginFunc: func(identifier string) (domain.User, error) {
			lookedUp = identifier
			return activeUser(), nil
		}}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("Anna", "password123")
		require.NoError(t, err)
		assert.Equal(t, "Anna", lookedUp)
	})

	t.Run("unknown login", func(t *testing.T) {
		_, _, err := newTestAuth(&MockStorage{}, &MockEmail{}, now).Login("nobody", "password123")
		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("wrong password counts failure", func(t *testing.T) {
		var countedId domain.UserId
		var limit int
		storage := &MockStorage{
			UserByLoginFunc: func(string) (domain.User, error) { return activeUser(), nil },
			RecordFailedLoginFunc: func(id domain.UserId, maxFailed int) (domain.LoginFailure, error) {
				countedId, limit = id, maxFailed
				return domain.LoginFailure{FailedLogins: 1}, nil
			},
		}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("anna", "wrong")

		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		assert.Equal(t, domain.UserId(5), countedId)
		assert.Equal(t, 3, limit)
	})

	t.Run("reaching the limit locks the account", func(t *testing.T) {
		storage := &MockStorage{
			UserByLoginFunc: func(string) (domain.User, error) { return activeUser(), nil },
			RecordFailedLoginFunc: func(domain.UserId, int) (domain.LoginFailure, error) {
				return domain.LoginFailure{FailedLogins: 3, Locked: true}, nil
			},
			AccountsFunc: func() ([]domain.Account, error) {
				return []domain.Account{{Id: 5, Role: domain.RoleTherapist, Status: domain.UserLocked}}, nil
			},
		}
		a := newTestAuth(storage, &MockEmail{}, now)
		_, _, err := a.Login("anna", "wrong")

		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
		assert.Equal(t, "Account is locked", err.Error())
		assert.True(t, a.statusCache.IsBlocked(5))
	})

	t.Run("locked account with correct password", func(t *testing.T) {
		storage := &MockStorage{UserByLoginFunc: func(string) (domain.User, error) {
			u := activeUser()
			u.Status = domain.UserLocked
			return u, nil
		}}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("anna", "password123")
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
		assert.Equal(t, "Account is locked", err.Error())
	})

	t.Run("inactive account with wrong password is not counted", func(t *testing.T) {
		saved := false
		storage := &MockStorage{
			UserByLoginFunc: func(string) (domain.User, error) {
				u := activeUser()
				u.Status = domain.UserInactive
				return u, nil
			},
			RecordFailedLoginFunc: func(domain.UserId, int) (domain.LoginFailure, error) {
				saved = true
				return domain.LoginFailure{}, nil
			},
		}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("anna", "wrong")
		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		assert.False(t, saved)
	})

	t.Run("inactive account with correct password", func(t *testing.T) {
		storage := &MockStorage{UserByLoginFunc: func(string) (domain.User, error) {
			u := activeUser()
			u.Status = domain.UserInactive
			return u, nil
		}}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("anna", "password123")
		assert.Equal(t, "Account is not active", err.Error())
	})

	t.Run("storage error", func(t *testing.T) {
		storage := &MockStorage{UserByLoginFunc: func(string) (domain.User, error) {
			return domain.User{}, fmt.Errorf("db down")
		}}
		_, _, err := newTestAuth(storage, &MockEmail{}, now).Login("anna", "password123")
		assert.Equal(t, http.StatusInternalServerError, internal_errors.StatusCode(err))
	})
}

// counterStorage keeps the failed login count the way the database does:
// every attempt is added under a lock and the limit is checked on the sum.
type counterStorage struct {
	MockStorage
	mu     sync.Mutex
	failed int
	locked bool
}

func (s *counterStorage) RecordFailedLogin(id domain.UserId, maxFailed int) (domain.LoginFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return domain.LoginFailure{FailedLogins: s.failed}, nil
	}
	s.failed++
	f := domain.LoginFailure{FailedLogins: s.failed}
	if maxFailed > 0 && s.failed >= maxFailed {
		s.locked = true
		f.Locked = true
	}
	return f, nil
}

func TestLoginConcurrentFailuresLock(t *testing.T) {
	hash := mustHash(t, "password123")
	storage := &counterStorage{}
	// every attempt reads the user before any failure is written
	storage.UserByLoginFunc = func(string) (domain.User, error) {
		return domain.User{Id: 5, Username: "anna", PassHash: hash, Role: domain.RoleTherapist, Status: domain.UserActive}, nil
	}
	a := NewAuth(storage, &MockEmail{}, &MockJwt{}, testConfig(), nil)

	const attempts = 3
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = a.Login("anna", "wrong")
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, storage.failed)
	assert.True(t, storage.locked)
	lockErrors := 0
	for _, err := range errs {
		if internal_errors.StatusCode(err) == http.StatusForbidden {
			lockErrors++
		}
	}
	assert.Equal(t, 1, lockErrors)
}

func TestRequestPasswordReset(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	user := domain.User{Id: 7, Email: "paul@example.com", Language: "en"}

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		email := &MockEmail{}
		err := newTestAuth(&MockStorage{}, email, now).RequestPasswordReset("ghost@example.com")
		assert.NoError(t, err)
		assert.Empty(t, email.Sent)
	})

	t.Run("previous code still valid", func(t *testing.T) {
		storage := &MockStorage{
			UserByEmailFunc: func(domain.Email) (domain.User, error) { return user, nil },
			ResetDataFunc: func(domain.UserId) (domain.ResetData, error) {
				return domain.ResetData{UserId: 7, Expires: now.Add(90 * time.Second)}, nil
			},
		}
		err := newTestAuth(storage, &MockEmail{}, now).RequestPasswordReset("paul@example.com")
		assert.Equal(t, http.StatusTooEarly, internal_errors.StatusCode(err))
		assert.Contains(t, err.Error(), "Retry after 90s")
	})

	t.Run("stores hashed code and mails it", func(t *testing.T) {
		var saved domain.ResetData
		storage := &MockStorage{
			UserByEmailFunc: func(e domain.Email) (domain.User, error) {
				assert.Equal(t, "paul@example.com", e)
				return user, nil
			},
			ResetDataFunc: func(domain.UserId) (domain.ResetData, error) {
				return domain.ResetData{UserId: 7, Expires: now.Add(-time.Minute)}, nil
			},
			SaveResetDataFunc: func(d domain.ResetData) error {
				saved = d
				return nil
			},
		}
		email := &MockEmail{}
		err := newTestAuth(storage, email, now).RequestPasswordReset(" PAUL@example.com")
		require.NoError(t, err)

		require.Len(t, email.Sent, 1)
		assert.Equal(t, "paul@example.com", email.Sent[0].To)
		assert.Equal(t, "Reset your password", email.Sent[0].Subject)
		code := regexp.MustCompile(`\n(\d{6})\n`).FindStringSubmatch(email.Sent[0].Body)
		require.Len(t, code, 2)

		assert.Equal(t, domain.UserId(7), saved.UserId)
		assert.Equal(t, now.Add(30*time.Minute), saved.Expires)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.CodeHash), []byte(code[1])))
	})

	t.Run("mail failure is returned", func(t *testing.T) {
		storage := &MockStorage{UserByEmailFunc: func(domain.Email) (domain.User, error) { return user, nil }}
		email := &MockEmail{SendFunc: func(string, string, string) error { return fmt.Errorf("smtp down") }}
		err := newTestAuth(storage, email, now).RequestPasswordReset("paul@example.com")
		assert.Error(t, err)
	})
}

func TestResetPassword(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	codeHash := mustHash(t, "123456")
	user := domain.User{Id: 7, Email: "paul@example.com", Status: domain.UserLocked}

	tests := []struct {
		name       string
		userErr    error
		reset      domain.ResetData
		resetErr   error
		code       string
		password   string
		wantStatus int
		wantMsg    string
		wantSet    bool
	}{
		{name: "success", reset: domain.ResetData{CodeHash: codeHash, Expires: now.Add(time.Minute)}, code: "123456", password: "newpassword", wantSet: true},
		{name: "expired", reset: domain.ResetData{CodeHash: codeHash, Expires: now.Add(-time.Minute)}, code: "123456", password: "newpassword", wantStatus: 400, wantMsg: "Reset code expired"},
		{name: "wrong code", reset: domain.ResetData{CodeHash: codeHash, Expires: now.Add(time.Minute)}, code: "654321", password: "newpassword", wantStatus: 400, wantMsg: "Wrong reset code"},
		{name: "no pending reset", resetErr: internal_errors.NotFound("Reset request not found"), code: "123456", password: "newpassword", wantStatus: 400, wantMsg: "Wrong reset code"},
		{name: "unknown email", userErr: internal_errors.NotFound("User not found"), code: "123456", password: "newpassword", wantStatus: 400, wantMsg: "Wrong reset code"},
		{name: "password too short", reset: domain.ResetData{CodeHash: codeHash, Expires: now.Add(time.Minute)}, code: "123456", password: "short", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var setHash string
			storage := &MockStorage{
				UserByEmailFunc: func(domain.Email) (domain.User, error) { return user, tt.userErr },
				ResetDataFunc:   func(domain.UserId) (domain.ResetData, error) { return tt.reset, tt.resetErr },
				SetPasswordFunc: func(id domain.UserId, hash string) error {
					assert.Equal(t, domain.UserId(7), id)
					setHash = hash
					return nil
				},
			}
			err := newTestAuth(storage, &MockEmail{}, now).ResetPassword("paul@example.com", tt.code, tt.password)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, internal_errors.StatusCode(err))
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}
				assert.Empty(t, setHash)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(setHash), []byte(tt.password)))
		})
	}
}

func TestChangePassword(t *testing.T) {
	hash := mustHash(t, "oldpassword")
	storage := &MockStorage{UserFunc: func(domain.UserId) (domain.User, error) {
		return domain.User{Id: 3, PassHash: hash}, nil
	}}
	a := newTestAuth(storage, &MockEmail{}, time.Now())

	err := a.ChangePassword(3, "nope", "newpassword")
	assert.Equal(t, "Wrong password", err.Error())

	var changed bool
	storage.SetPasswordFunc = func(id domain.UserId, h string) error {
		changed = bcrypt.CompareHashAndPassword([]byte(h), []byte("newpassword")) == nil
		return nil
	}
	require.NoError(t, a.ChangePassword(3, "oldpassword", "newpassword"))
	assert.True(t, changed)
}
