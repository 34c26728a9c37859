package domain

import "time"

type User struct {
	Id           UserId     `json:"id"`
	Email        Email      `json:"email"`
	Username     string     `json:"username"`
	PassHash     string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Language     Language   `json:"language"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	FailedLogins int        `json:"failed_logins"`
	Created      time.Time  `json:"created"`
	Modified     time.Time  `json:"modified"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Account is the part of a user checked on every authenticated request.
type Account struct {
	Id     UserId
	Role   Role
	Status UserStatus
}

// UserUpdate carries a partial update, nil fields stay untouched.
type UserUpdate struct {
	Email    *Email
	Username *string
	Role     *Role
	Status   *UserStatus
	Language *Language
}

func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.Role == nil && u.Status == nil && u.Language == nil
}

type UserQuery struct {
	Role   Role
	Status UserStatus
	Search string // substring of email or username
	Page   Page
}

// ResetData is the pending password reset of a user.
type ResetData struct {
	UserId   UserId
	CodeHash string
	Expires  time.Time
}

// LoginFailure is the account state after a failed password check.
type LoginFailure struct {
	FailedLogins int
	// Locked is set only for the attempt that locked the account.
	Locked bool
}
