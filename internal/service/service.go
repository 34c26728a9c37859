// Package service holds the business rules. Each service declares the
// storage operations it needs, the storage package satisfies all of them.
package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
)

type Email interface {
	Send(recipientEmail, subject, body string) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores everything beyond
)

func normalizePage(p domain.Page, cfg *config.Public) domain.Page {
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 && p.Limit > cfg.MaxPageSize {
		p.Limit = cfg.MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return "", errors.BadRequest("Password must be between 8 and 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

const (
	digits           = "0123456789"
	passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func randomString(alphabet string, n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	size := big.NewInt(int64(len(alphabet)))
	for range n {
		i, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[i.Int64()])
	}
	return sb.String(), nil
}

// GenerateCode returns n random decimal digits.
func GenerateCode(n int) (string, error) {
	return randomString(digits, n)
}

// GeneratePassword returns a random password without look-alike characters.
func GeneratePassword(n int) (string, error) {
	return randomString(passwordAlphabet, n)
}

// checkUsername rejects usernames that could be mistaken for an email
// address at login.
func checkUsername(username string) error {
	if strings.Contains(username, "@") {
		return errors.BadRequest("Username must not contain @")
	}
	return nil
}

func normalizeEmail(email domain.Email) domain.Email {
	return strings.ToLower(strings.TrimSpace(email))
}

func language(l domain.Language, cfg *config.Public) domain.Language {
	if l == "" {
		return cfg.DefaultLanguage
	}
	return strings.ToLower(l)
}
