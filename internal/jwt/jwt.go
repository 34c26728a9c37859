package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mindgames-dev/mindgames/internal/domain"
	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
	// NeedsRefresh reports whether a valid token is close enough to expiry
	// to be replaced.
	NeedsRefresh(claims *Claims) bool
	TTL() time.Duration
}

// Claims carried by access tokens. exp and iat come from RegisteredClaims.
type Claims struct {
	UserId domain.UserId `json:"uid"`
	Role   domain.Role   `json:"role"`
	Email  domain.Email  `json:"email"`
	jwt.RegisteredClaims
}

// User returns the identity the claims describe.
func (c *Claims) User() *domain.User {
	return &domain.User{Id: c.UserId, Role: c.Role, Email: c.Email}
}

type Jwt struct {
	secretKey        string
	ttl              time.Duration
	refreshThreshold time.Duration
	now              func() time.Time
}

func New(secretKey string, ttl, refreshThreshold time.Duration) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, refreshThreshold: refreshThreshold, now: time.Now}
}

func (j *Jwt) TTL() time.Duration { return j.ttl }

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	claims := Claims{
		UserId: user.Id,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("can't create token: %w", err)
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		if internal_errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal_errors.Unauthorized("Access token expired")
		}
		return nil, internal_errors.Unauthorized("Invalid token signature")
	}
	if !token.Valid || claims.UserId <= 0 || !claims.Role.Valid() {
		return nil, internal_errors.Unauthorized("Invalid access token")
	}
	return claims, nil
}

func (j *Jwt) NeedsRefresh(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Sub(j.now()) < j.refreshThreshold
}
