package service

import (
	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
)

type UserService interface {
	Get(actor *domain.User, id domain.UserId) (domain.User, error)
	List(q domain.UserQuery) (domain.List[domain.User], error)
	Update(actor *domain.User, id domain.UserId, upd domain.UserUpdate) (domain.User, error)
	Delete(actor *domain.User, id domain.UserId) error
}

type UserStorage interface {
	User(id domain.UserId) (domain.User, error)
	Users(q domain.UserQuery) (domain.List[domain.User], error)
	UpdateUser(id domain.UserId, upd domain.UserUpdate) error
	DeleteUser(id domain.UserId) error
}

type Users struct {
	storage     UserStorage
	cfg         *config.Public
	statusCache *StatusCache
}

func NewUsers(storage UserStorage, cfg *config.Public, statusCache *StatusCache) *Users {
	return &Users{storage: storage, cfg: cfg, statusCache: statusCache}
}

func (s *Users) Get(actor *domain.User, id domain.UserId) (domain.User, error) {
	if !isSelfOrAdmin(actor, id) {
		return domain.User{}, errAccessDenied
	}
	return s.storage.User(id)
}

func (s *Users) List(q domain.UserQuery) (domain.List[domain.User], error) {
	if q.Role != "" && !q.Role.Valid() {
		return domain.List[domain.User]{}, errors.BadRequest("Invalid role")
	}
	if q.Status != "" && !q.Status.Valid() {
		return domain.List[domain.User]{}, errors.BadRequest("Invalid status")
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.Users(q)
}

// Update lets admins change everything. Other users may only change their
// own language.
func (s *Users) Update(actor *domain.User, id domain.UserId, upd domain.UserUpdate) (domain.User, error) {
	if !isSelfOrAdmin(actor, id) {
		return domain.User{}, errAccessDenied
	}
	if !actor.IsAdmin() && (upd.Email != nil || upd.Username != nil || upd.Role != nil || upd.Status != nil) {
		return domain.User{}, errors.Forbidden("Only the language can be changed")
	}
	if actor.Id == id && (upd.Role != nil || upd.Status != nil) {
		return domain.User{}, errors.BadRequest("Cannot change own role or status")
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return domain.User{}, errors.BadRequest("Invalid role")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return domain.User{}, errors.BadRequest("Invalid status")
	}
	if upd.Username != nil {
		if err := checkUsername(*upd.Username); err != nil {
			return domain.User{}, err
		}
	}
	if upd.Email != nil {
		e := normalizeEmail(*upd.Email)
		upd.Email = &e
	}
	if upd.Language != nil {
		l := language(*upd.Language, s.cfg)
		upd.Language = &l
	}

	if !upd.Empty() {
		if err := s.storage.UpdateUser(id, upd); err != nil {
			return domain.User{}, err
		}
	}
	if upd.Role != nil || upd.Status != nil {
		s.statusCache.refresh("user role or status changed")
	}
	return s.storage.User(id)
}

func (s *Users) Delete(actor *domain.User, id domain.UserId) error {
	if actor == nil || !actor.IsAdmin() {
		return errAccessDenied
	}
	if actor.Id == id {
		return errors.BadRequest("Cannot delete own account")
	}
	if err := s.storage.DeleteUser(id); err != nil {
		return err
	}
	s.statusCache.refresh("user deleted")
	return nil
}
