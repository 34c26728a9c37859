package domain

import "time"

type TherapistStatus string

const (
	TherapistPending  TherapistStatus = "pending"
	TherapistAccepted TherapistStatus = "accepted"
	TherapistRejected TherapistStatus = "rejected"
)

func (s TherapistStatus) Valid() bool {
	switch s {
	case TherapistPending, TherapistAccepted, TherapistRejected:
		return true
	}
	return false
}

type Therapist struct {
	Id          UserId          `json:"id"`
	Firstname   string          `json:"firstname"`
	Lastname    string          `json:"lastname"`
	Phone       string          `json:"phone"`
	Institution string          `json:"institution"`
	Status      TherapistStatus `json:"status"`
	User        User            `json:"user"`
}

type TherapistUpdate struct {
	Firstname   *string
	Lastname    *string
	Phone       *string
	Institution *string
	Status      *TherapistStatus
}

type TherapistQuery struct {
	Status TherapistStatus
	Search string
	Page   Page
}

type Patient struct {
	Id          UserId     `json:"id"`
	TherapistId UserId     `json:"therapist_id"`
	Firstname   string     `json:"firstname"`
	Lastname    string     `json:"lastname"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Info        string     `json:"info"`
	User        User       `json:"user"`
	// Filled from the therapist join
	TherapistName string `json:"therapist_name"`
}

type PatientUpdate struct {
	TherapistId *UserId
	Firstname   *string
	Lastname    *string
	Birthdate   *time.Time
	Info        *string
}

type PatientQuery struct {
	TherapistId UserId // 0 means any therapist
	Search      string
	Page        Page
}
