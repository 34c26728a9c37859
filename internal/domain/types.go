package domain

type (
	UserId   = int64
	Email    = string
	Password = string
	Language = string
	Game     = string
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
	RolePatient   Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTherapist, RolePatient:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserLocked   UserStatus = "locked"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserLocked:
		return true
	}
	return false
}

// Page is a limit/offset window. Limit 0 means no limit.
type Page struct {
	Limit  int
	Offset int
}

type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
