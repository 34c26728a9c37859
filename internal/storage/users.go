package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
	"github.com/mindgames-dev/mindgames/internal/storage/sqldb"
)

// =========================================================================
// Public Methods (satisfy the service user and auth storage interfaces)
// =========================================================================

func (s *Storage) CreateUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := timeout()
	defer cancel()
	return s.createUser(ctx, s.db, user)
}

func (s *Storage) User(id domain.UserId) (domain.User, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.users, facade.NewFilter().Eq("u.id", id), "User", scanUser)
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.users, facade.NewFilter().Eq("u.email", strings.ToLower(email)), "User", scanUser)
}

// UserByLogin finds a user by email when identifier contains @, by username
// otherwise.
func (s *Storage) UserByLogin(identifier string) (domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.UserByEmail(identifier)
	}
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.users, facade.NewFilter().Eq("u.username", identifier), "User", scanUser)
}

func (s *Storage) Users(q domain.UserQuery) (domain.List[domain.User], error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Role != "" {
		filter.Eq("u.role", q.Role)
	}
	if q.Status != "" {
		filter.Eq("u.status", q.Status)
	}
	if q.Search != "" {
		filter.Or(
			facade.NewFilter().Like("u.email", q.Search),
			facade.NewFilter().Like("u.username", q.Search),
		)
	}
	return list(ctx, s.db, s.f.users, filter, []facade.Order{facade.Asc("u.id")}, q.Page, scanUser)
}

// UserEmailsByRole returns the addresses of all active users with role.
func (s *Storage) UserEmailsByRole(role domain.Role) ([]domain.Email, error) {
	ctx, cancel := timeout()
	defer cancel()
	users, err := all(ctx, s.db, s.f.users,
		facade.NewFilter().Eq("u.role", role).Eq("u.status", domain.UserActive),
		[]facade.Order{facade.Asc("u.id")}, domain.Page{}, scanUser)
	if err != nil {
		return nil, err
	}
	emails := make([]domain.Email, len(users))
	for i, u := range users {
		emails[i] = u.Email
	}
	return emails, nil
}

func (s *Storage) UpdateUser(id domain.UserId, upd domain.UserUpdate) error {
	ctx, cancel := timeout()
	defer cancel()
	return s.updateUser(ctx, s.db, id, upd)
}

// DeleteUser removes a user; therapist or patient rows cascade.
func (s *Storage) DeleteUser(id domain.UserId) error {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.users.DeleteQuery(facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "User")
}

// Accounts lists the role and status of every user.
func (s *Storage) Accounts() ([]domain.Account, error) {
	ctx, cancel := timeout()
	defer cancel()
	f := facade.New(s.dialect, "users", "").Select("id", "role", "status")
	return all(ctx, s.db, f, nil, []facade.Order{facade.Asc("id")}, domain.Page{}, scanAccount)
}

// Account returns the role and status of one user.
func (s *Storage) Account(id domain.UserId) (domain.Account, error) {
	ctx, cancel := timeout()
	defer cancel()
	f := facade.New(s.dialect, "users", "").Select("id", "role", "status")
	return one(ctx, s.db, f, facade.NewFilter().Eq("id", id), "User", scanAccount)
}

func scanAccount(r scanner) (domain.Account, error) {
	var a domain.Account
	err := r.Scan(&a.Id, &a.Role, &a.Status)
	return a, err
}

// SaveLogin records a successful login and clears the failed login count.
func (s *Storage) SaveLogin(id domain.UserId, at time.Time) error {
	ctx, cancel := timeout()
	defer cancel()
	attrs := facade.NewAttributes().Set("failed_logins", 0).Set("last_login", at.UTC())
	query, args, err := s.f.users.UpdateQuery(attrs, facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "User")
}

// RecordFailedLogin increments the failed login count of an active account
// and locks it once maxFailed is reached, 0 never locks. The increment and
// the lock run in one transaction on the row, so concurrent attempts are all
// counted and only one of them reports the lock.
func (s *Storage) RecordFailedLogin(id domain.UserId, maxFailed int) (domain.LoginFailure, error) {
	ctx, cancel := timeout()
	defer cancel()
	var failure domain.LoginFailure
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := s.f.users.UpdateQuery(
			facade.NewAttributes().Increment("failed_logins", 1),
			facade.NewFilter().Eq("id", id).Eq("status", domain.UserActive))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to count failed login: %w", err)
		}

		if maxFailed > 0 {
			query, args, err = s.f.users.UpdateQuery(
				facade.NewAttributes().Set("status", domain.UserLocked).Set("modified", s.now()),
				facade.NewFilter().Eq("id", id).Eq("status", domain.UserActive).Gte("failed_logins", maxFailed))
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to lock user: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check affected rows: %w", err)
			}
			failure.Locked = n > 0
		}

		f := facade.New(s.dialect, "users", "").Select("failed_logins")
		failure.FailedLogins, err = one(ctx, tx, f, facade.NewFilter().Eq("id", id), "User", func(r scanner) (int, error) {
			var n int
			err := r.Scan(&n)
			return n, err
		})
		return err
	})
	if err != nil {
		return domain.LoginFailure{}, err
	}
	return failure, nil
}

func (s *Storage) SaveResetData(data domain.ResetData) error {
	ctx, cancel := timeout()
	defer cancel()
	attrs := facade.NewAttributes().
		Set("reset_code", data.CodeHash).
		Set("reset_expires", data.Expires.UTC())
	query, args, err := s.f.users.UpdateQuery(attrs, facade.NewFilter().Eq("id", data.UserId))
	return exec(ctx, s.db, query, args, err, "User")
}

// ResetData returns the pending password reset of a user, NotFound if none.
func (s *Storage) ResetData(id domain.UserId) (domain.ResetData, error) {
	ctx, cancel := timeout()
	defer cancel()
	f := facade.New(s.dialect, "users", "").Select("id", "reset_code", "reset_expires")
	filter := facade.NewFilter().Eq("id", id).IsNotNull("reset_code")
	return one(ctx, s.db, f, filter, "Reset request", func(r scanner) (domain.ResetData, error) {
		var (
			data    domain.ResetData
			expires sql.NullTime
		)
		if err := r.Scan(&data.UserId, &data.CodeHash, &expires); err != nil {
			return data, err
		}
		data.Expires = expires.Time.UTC()
		return data, nil
	})
}

// SetPassword stores a new password hash, drops any pending reset code,
// clears failed logins and lifts a lock.
func (s *Storage) SetPassword(id domain.UserId, hash string) error {
	ctx, cancel := timeout()
	defer cancel()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		attrs := facade.NewAttributes().
			Set("password", hash).
			Set("reset_code", nil).
			Set("reset_expires", nil).
			Set("failed_logins", 0).
			Set("modified", s.now())
		query, args, err := s.f.users.UpdateQuery(attrs, facade.NewFilter().Eq("id", id))
		if err := exec(ctx, tx, query, args, err, "User"); err != nil {
			return err
		}
		query, args, err = s.f.users.UpdateQuery(
			facade.NewAttributes().Set("status", domain.UserActive),
			facade.NewFilter().Eq("id", id).Eq("status", domain.UserLocked))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to unlock user: %w", err)
		}
		return nil
	})
}

// =========================================================================
// Internal Methods (transaction-agnostic, shared with people.go)
// =========================================================================

func (s *Storage) createUser(ctx context.Context, q sqldb.Querier, user domain.User) (domain.UserId, error) {
	now := s.now()
	language := user.Language
	status := user.Status
	if status == "" {
		status = domain.UserActive
	}
	attrs := facade.NewAttributes().
		Set("email", strings.ToLower(user.Email)).
		Set("username", user.Username).
		Set("password", user.PassHash).
		Set("role", user.Role).
		Set("status", status).
		SetIf(language != "", "language", language).
		Set("failed_logins", 0).
		Set("created", now).
		Set("modified", now)
	id, err := insert(ctx, q, s.f.users, attrs)
	if err != nil {
		return 0, sqldb.MapError(fmt.Errorf("failed to insert user: %w", err), "User")
	}
	return id, nil
}

func userAttributes(upd domain.UserUpdate) *facade.Attributes {
	attrs := facade.NewAttributes()
	if upd.Email != nil {
		attrs.Set("email", strings.ToLower(*upd.Email))
	}
	if upd.Username != nil {
		attrs.Set("username", *upd.Username)
	}
	if upd.Role != nil {
		attrs.Set("role", *upd.Role)
	}
	if upd.Status != nil {
		attrs.Set("status", *upd.Status)
		// unlocking starts a fresh failed login count
		attrs.SetIf(*upd.Status == domain.UserActive, "failed_logins", 0)
	}
	if upd.Language != nil {
		attrs.Set("language", *upd.Language)
	}
	return attrs
}

func (s *Storage) updateUser(ctx context.Context, q sqldb.Querier, id domain.UserId, upd domain.UserUpdate) error {
	attrs := userAttributes(upd)
	if attrs.Len() == 0 {
		return nil
	}
	attrs.Set("modified", s.now())
	query, args, err := s.f.users.UpdateQuery(attrs, facade.NewFilter().Eq("id", id))
	return exec(ctx, q, query, args, err, "User")
}

func userDest(u *domain.User, lastLogin *sql.NullTime) []any {
	return []any{
		&u.Id, &u.Email, &u.Username, &u.PassHash, &u.Role, &u.Status, &u.Language,
		lastLogin, &u.FailedLogins, &u.Created, &u.Modified,
	}
}

func scanUser(r scanner) (domain.User, error) {
	var (
		u         domain.User
		lastLogin sql.NullTime
	)
	if err := r.Scan(userDest(&u, &lastLogin)...); err != nil {
		return domain.User{}, err
	}
	u.LastLogin = nullTime(lastLogin)
	u.Created = u.Created.UTC()
	u.Modified = u.Modified.UTC()
	return u, nil
}
