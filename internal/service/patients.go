package service

import (
	"net/http"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/service/markup"
)

const generatedPasswordLen = 12

type PatientService interface {
	Create(actor *domain.User, user domain.User, password string, p domain.Patient) (domain.Patient, error)
	Get(actor *domain.User, id domain.UserId) (domain.Patient, error)
	List(actor *domain.User, q domain.PatientQuery) (domain.List[domain.Patient], error)
	Update(actor *domain.User, id domain.UserId, upd domain.PatientUpdate, userUpd domain.UserUpdate) (domain.Patient, error)
	Delete(actor *domain.User, id domain.UserId) error
}

type PatientStorage interface {
	CreatePatient(user domain.User, p domain.Patient) (domain.UserId, error)
	Patient(id domain.UserId) (domain.Patient, error)
	Patients(q domain.PatientQuery) (domain.List[domain.Patient], error)
	UpdatePatient(id domain.UserId, upd domain.PatientUpdate, user domain.UserUpdate) error
	DeleteUser(id domain.UserId) error
	Therapist(id domain.UserId) (domain.Therapist, error)
}

type Patients struct {
	storage     PatientStorage
	email       Email
	cfg         *config.Public
	statusCache *StatusCache
}

func NewPatients(storage PatientStorage, email Email, cfg *config.Public, statusCache *StatusCache) *Patients {
	return &Patients{storage: storage, email: email, cfg: cfg, statusCache: statusCache}
}

// assignableTherapist checks that id names an accepted therapist.
func (s *Patients) assignableTherapist(id domain.UserId) error {
	t, err := s.storage.Therapist(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.BadRequest("Unknown therapist")
		}
		return err
	}
	if t.Status != domain.TherapistAccepted {
		return errors.BadRequest("Therapist is not accepted")
	}
	return nil
}

// Create adds a patient account. Therapists always own the patients they
// create, admins pick the therapist. Without a password one is generated,
// either way the patient receives the login by mail.
func (s *Patients) Create(actor *domain.User, user domain.User, password string, p domain.Patient) (domain.Patient, error) {
	switch {
	case actor == nil:
		return domain.Patient{}, errAccessDenied
	case actor.Role == domain.RoleTherapist:
		p.TherapistId = actor.Id
	case actor.IsAdmin():
		if p.TherapistId == 0 {
			return domain.Patient{}, errors.BadRequest("Therapist is required")
		}
	default:
		return domain.Patient{}, errAccessDenied
	}
	if err := checkUsername(user.Username); err != nil {
		return domain.Patient{}, err
	}
	if err := s.assignableTherapist(p.TherapistId); err != nil {
		if actor.Role == domain.RoleTherapist && errors.StatusCode(err) == http.StatusBadRequest {
			return domain.Patient{}, errors.Forbidden("Therapist account is not accepted")
		}
		return domain.Patient{}, err
	}

	generated := ""
	if password == "" {
		var err error
		if generated, err = GeneratePassword(generatedPasswordLen); err != nil {
			return domain.Patient{}, err
		}
		password = generated
	}
	hash, err := HashPassword(password)
	if err != nil {
		return domain.Patient{}, err
	}

	user.Email = normalizeEmail(user.Email)
	user.PassHash = hash
	user.Role = domain.RolePatient
	user.Status = domain.UserActive
	user.Language = language(user.Language, s.cfg)
	p.Firstname = markup.Sanitize(p.Firstname)
	p.Lastname = markup.Sanitize(p.Lastname)
	p.Info = markup.Sanitize(p.Info)

	id, err := s.storage.CreatePatient(user, p)
	if err != nil {
		return domain.Patient{}, err
	}
	logger.Log.Info("patient created", "user_id", id, "therapist_id", p.TherapistId, "by", actor.Id)

	notify(s.email, user.Email, patientCreatedMail(user.Language, p.Firstname, user.Username, generated))
	return s.storage.Patient(id)
}

func (s *Patients) Get(actor *domain.User, id domain.UserId) (domain.Patient, error) {
	return loadPatient(s.storage, actor, id, true)
}

func (s *Patients) List(actor *domain.User, q domain.PatientQuery) (domain.List[domain.Patient], error) {
	switch {
	case actor == nil:
		return domain.List[domain.Patient]{}, errAccessDenied
	case actor.Role == domain.RoleTherapist:
		q.TherapistId = actor.Id
	case !actor.IsAdmin():
		return domain.List[domain.Patient]{}, errAccessDenied
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.Patients(q)
}

// Update is allowed to the owning therapist and admins. Moving a patient to
// another therapist is reserved to admins.
func (s *Patients) Update(actor *domain.User, id domain.UserId, upd domain.PatientUpdate, userUpd domain.UserUpdate) (domain.Patient, error) {
	if _, err := loadPatient(s.storage, actor, id, false); err != nil {
		return domain.Patient{}, err
	}
	if upd.TherapistId != nil {
		if !actor.IsAdmin() {
			return domain.Patient{}, errors.Forbidden("Only admins can reassign patients")
		}
		if err := s.assignableTherapist(*upd.TherapistId); err != nil {
			return domain.Patient{}, err
		}
	}
	for _, f := range []*string{upd.Firstname, upd.Lastname, upd.Info} {
		if f != nil {
			*f = markup.Sanitize(*f)
		}
	}
	if userUpd.Language != nil {
		l := language(*userUpd.Language, s.cfg)
		userUpd.Language = &l
	}

	if err := s.storage.UpdatePatient(id, upd, userUpd); err != nil {
		return domain.Patient{}, err
	}
	return s.storage.Patient(id)
}

func (s *Patients) Delete(actor *domain.User, id domain.UserId) error {
	if _, err := loadPatient(s.storage, actor, id, false); err != nil {
		return err
	}
	if err := s.storage.DeleteUser(id); err != nil {
		return err
	}
	s.statusCache.refresh("patient deleted")
	return nil
}
