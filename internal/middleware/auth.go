package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/mindgames-dev/mindgames/internal/domain"
	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
	jwt_internal "github.com/mindgames-dev/mindgames/internal/jwt"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

const AccessTokenCookie = "accessToken"

// AccountChecker returns the current role and status of a token's user. A
// NotFound error means the account was deleted.
type AccountChecker interface {
	Account(userId domain.UserId) (domain.Account, error)
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService     jwt_internal.JwtService
	accountChecker AccountChecker
	secureCookies  bool
}

func NewAuth(jwtService jwt_internal.JwtService, accountChecker AccountChecker, secureCookies bool) *Auth {
	return &Auth{
		jwtService:     jwtService,
		accountChecker: accountChecker,
		secureCookies:  secureCookies,
	}
}

// NeedAuth returns middleware that requires a valid token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(nil)
}

// RequireRole returns middleware that requires a valid token of one of roles.
func (a *Auth) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return a.auth(roles)
}

// AdminOnly is RequireRole(domain.RoleAdmin).
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth([]domain.Role{domain.RoleAdmin})
}

// extractToken reads the bearer token, falling back to the access cookie.
func extractToken(r *http.Request) (token string, fromCookie bool) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found && token != "" {
		return strings.TrimSpace(token), false
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

func (a *Auth) auth(roles []domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, fromCookie := extractToken(r)
			if tokenString == "" {
				utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Please sign in"))
				return
			}

			claims, err := a.jwtService.DecodeToken(tokenString)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			user := claims.User()

			// the token role is replaced by the stored one and reissued
			roleChanged := false
			if a.accountChecker != nil {
				account, err := a.accountChecker.Account(user.Id)
				switch {
				case internal_errors.IsNotFound(err):
					a.reject(w, fromCookie, internal_errors.Unauthorized("Account no longer exists"))
					return
				case err != nil:
					logger.FromContext(r.Context()).Error("failed to check account", "user_id", user.Id, "error", err)
					utils.WriteErrorAndStatusCode(w, err)
					return
				case account.Status != domain.UserActive:
					a.reject(w, fromCookie, internal_errors.Forbidden("Account is not active"))
					return
				}
				if account.Role != user.Role {
					user.Role = account.Role
					roleChanged = true
				}
			}

			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				utils.WriteErrorAndStatusCode(w, internal_errors.Forbidden("Access denied"))
				return
			}

			if roleChanged || a.jwtService.NeedsRefresh(claims) {
				a.refresh(w, user, fromCookie)
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// refresh issues a fresh token in the Authorization response header and, for
// cookie clients, in the cookie.
func (a *Auth) refresh(w http.ResponseWriter, user *domain.User, fromCookie bool) {
	token, err := a.jwtService.NewToken(*user)
	if err != nil {
		// the current token stays valid, the client retries on a later request
		logger.Log.Error("failed to refresh token", "user_id", user.Id, "error", err)
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	if fromCookie {
		a.setCookie(w, token, int(a.jwtService.TTL().Seconds()))
	}
}

// reject answers with err and drops the access cookie of cookie clients.
func (a *Auth) reject(w http.ResponseWriter, fromCookie bool, err error) {
	if fromCookie {
		a.setCookie(w, "", -1)
	}
	utils.WriteErrorAndStatusCode(w, err)
}

func (a *Auth) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserClaimsKey, user)
}

// GetUserFromContext retrieves the authenticated user, nil on public routes.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
