package service

import (
	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/service/markup"
)

type TherapistService interface {
	Register(user domain.User, password string, t domain.Therapist) (domain.Therapist, error)
	Get(actor *domain.User, id domain.UserId) (domain.Therapist, error)
	List(q domain.TherapistQuery) (domain.List[domain.Therapist], error)
	Update(actor *domain.User, id domain.UserId, upd domain.TherapistUpdate, userUpd domain.UserUpdate) (domain.Therapist, error)
	Delete(id domain.UserId) error
}

type TherapistStorage interface {
	CreateTherapist(user domain.User, t domain.Therapist) (domain.UserId, error)
	Therapist(id domain.UserId) (domain.Therapist, error)
	Therapists(q domain.TherapistQuery) (domain.List[domain.Therapist], error)
	UpdateTherapist(id domain.UserId, upd domain.TherapistUpdate, user domain.UserUpdate) error
	DeleteUser(id domain.UserId) error
	UserEmailsByRole(role domain.Role) ([]domain.Email, error)
}

type Therapists struct {
	storage     TherapistStorage
	email       Email
	cfg         *config.Public
	statusCache *StatusCache
}

func NewTherapists(storage TherapistStorage, email Email, cfg *config.Public, statusCache *StatusCache) *Therapists {
	return &Therapists{storage: storage, email: email, cfg: cfg, statusCache: statusCache}
}

// Register creates a pending therapist with an inactive account and tells the
// admins about it.
func (s *Therapists) Register(user domain.User, password string, t domain.Therapist) (domain.Therapist, error) {
	if err := checkUsername(user.Username); err != nil {
		return domain.Therapist{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return domain.Therapist{}, err
	}
	user.Email = normalizeEmail(user.Email)
	user.PassHash = hash
	user.Role = domain.RoleTherapist
	user.Status = domain.UserInactive
	user.Language = language(user.Language, s.cfg)

	t.Firstname = markup.Sanitize(t.Firstname)
	t.Lastname = markup.Sanitize(t.Lastname)
	t.Phone = markup.Sanitize(t.Phone)
	t.Institution = markup.Sanitize(t.Institution)
	t.Status = domain.TherapistPending

	id, err := s.storage.CreateTherapist(user, t)
	if err != nil {
		return domain.Therapist{}, err
	}
	logger.Log.Info("therapist registered", "user_id", id)

	for _, admin := range s.adminEmails() {
		notify(s.email, admin, buildMail("therapist_registered", s.cfg.DefaultLanguage, t.Firstname, t.Lastname, user.Email, t.Institution))
	}
	notify(s.email, user.Email, buildMail("registration_received", user.Language, t.Firstname))

	return s.storage.Therapist(id)
}

// adminEmails merges configured addresses with every active admin account.
func (s *Therapists) adminEmails() []domain.Email {
	seen := make(map[domain.Email]bool)
	var out []domain.Email
	add := func(e domain.Email) {
		e = normalizeEmail(e)
		if e != "" && !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, e := range s.cfg.AdminEmails {
		add(e)
	}
	emails, err := s.storage.UserEmailsByRole(domain.RoleAdmin)
	if err != nil {
		logger.Log.Warn("failed to load admin emails", "error", err)
	}
	for _, e := range emails {
		add(e)
	}
	return out
}

func (s *Therapists) Get(actor *domain.User, id domain.UserId) (domain.Therapist, error) {
	if !isSelfOrAdmin(actor, id) {
		return domain.Therapist{}, errAccessDenied
	}
	return s.storage.Therapist(id)
}

func (s *Therapists) List(q domain.TherapistQuery) (domain.List[domain.Therapist], error) {
	if q.Status != "" && !q.Status.Valid() {
		return domain.List[domain.Therapist]{}, errors.BadRequest("Invalid status")
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.Therapists(q)
}

// Update changes the profile. Only admins may decide the approval status,
// accepting activates the account and rejecting deactivates it.
func (s *Therapists) Update(actor *domain.User, id domain.UserId, upd domain.TherapistUpdate, userUpd domain.UserUpdate) (domain.Therapist, error) {
	if !isSelfOrAdmin(actor, id) {
		return domain.Therapist{}, errAccessDenied
	}
	if upd.Status != nil && !actor.IsAdmin() {
		return domain.Therapist{}, errors.Forbidden("Only admins can change the status")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return domain.Therapist{}, errors.BadRequest("Invalid status")
	}

	before, err := s.storage.Therapist(id)
	if err != nil {
		return domain.Therapist{}, err
	}

	for _, f := range []*string{upd.Firstname, upd.Lastname, upd.Phone, upd.Institution} {
		if f != nil {
			*f = markup.Sanitize(*f)
		}
	}
	if userUpd.Language != nil {
		l := language(*userUpd.Language, s.cfg)
		userUpd.Language = &l
	}
	statusChanged := upd.Status != nil && *upd.Status != before.Status
	if statusChanged {
		userStatus := domain.UserInactive
		if *upd.Status == domain.TherapistAccepted {
			userStatus = domain.UserActive
		}
		userUpd.Status = &userStatus
	}

	if err := s.storage.UpdateTherapist(id, upd, userUpd); err != nil {
		return domain.Therapist{}, err
	}
	after, err := s.storage.Therapist(id)
	if err != nil {
		return domain.Therapist{}, err
	}

	if statusChanged {
		logger.Log.Info("therapist status changed", "user_id", id, "from", before.Status, "to", after.Status, "by", actor.Id)
		s.statusCache.refresh("therapist status changed")
		if after.Status == domain.TherapistAccepted {
			notify(s.email, after.User.Email, buildMail("therapist_accepted", after.User.Language, after.Firstname))
		}
	}
	return after, nil
}

// Delete removes the therapist with its account. Therapists who still own
// patients cannot be deleted.
func (s *Therapists) Delete(id domain.UserId) error {
	if _, err := s.storage.Therapist(id); err != nil {
		return err
	}
	if err := s.storage.DeleteUser(id); err != nil {
		return err
	}
	s.statusCache.refresh("therapist deleted")
	return nil
}
