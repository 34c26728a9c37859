package middleware

import (
	"errors"
	"fmt"
	"net/http"

	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/middleware/ratelimiter"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

// RateLimit rejects requests whose identity has no tokens left. Admins are
// never limited.
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				utils.WriteErrorAndStatusCode(w, internal_errors.New("Rate limit exceeded, try again later", http.StatusTooManyRequests))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.Limiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetUserIDFromContext identifies authenticated callers.
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", errors.New("can't get user id")
	}
	return fmt.Sprintf("user_%d", user.Id), nil
}

// GetEmailAndIP identifies callers by the email in the body and their IP, so
// one client can't exhaust the limit of another address.
func GetEmailAndIP(r *http.Request) (string, error) {
	ip, err := utils.GetIP(r)
	if err != nil {
		return "", err
	}
	email, err := utils.GetEmailFromBody(r)
	if err != nil {
		return "", err
	}
	return email + "|" + ip, nil
}
