package service

import (
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
)

var errAccessDenied = errors.Forbidden("Access denied")

type patientGetter interface {
	Patient(id domain.UserId) (domain.Patient, error)
}

// canAccessPatient: admins see everybody, therapists their own patients and
// patients themselves when allowSelf is set.
func canAccessPatient(actor *domain.User, p domain.Patient, allowSelf bool) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTherapist:
		return p.TherapistId == actor.Id
	case domain.RolePatient:
		return allowSelf && p.Id == actor.Id
	}
	return false
}

func loadPatient(s patientGetter, actor *domain.User, id domain.UserId, allowSelf bool) (domain.Patient, error) {
	if actor == nil {
		return domain.Patient{}, errAccessDenied
	}
	// patients never learn whether other ids exist
	if actor.Role == domain.RolePatient && (!allowSelf || actor.Id != id) {
		return domain.Patient{}, errAccessDenied
	}
	p, err := s.Patient(id)
	if err != nil {
		return domain.Patient{}, err
	}
	if !canAccessPatient(actor, p, allowSelf) {
		return domain.Patient{}, errAccessDenied
	}
	return p, nil
}

func isSelfOrAdmin(actor *domain.User, id domain.UserId) bool {
	return actor != nil && (actor.IsAdmin() || actor.Id == id)
}
