package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
	"github.com/mindgames-dev/mindgames/internal/storage/sqldb"
)

// =========================================================================
// Therapists
// =========================================================================

// CreateTherapist inserts the user and the therapist profile in one
// transaction and returns the new user id.
func (s *Storage) CreateTherapist(user domain.User, t domain.Therapist) (domain.UserId, error) {
	ctx, cancel := timeout()
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = s.createUser(ctx, tx, user); err != nil {
			return err
		}
		status := t.Status
		if status == "" {
			status = domain.TherapistPending
		}
		attrs := facade.NewAttributes().
			Set("user_id", id).
			Set("firstname", t.Firstname).
			Set("lastname", t.Lastname).
			Set("phone", t.Phone).
			Set("institution", t.Institution).
			Set("status", status)
		if _, err := insert(ctx, tx, s.f.therapistTable, attrs); err != nil {
			return sqldb.MapError(fmt.Errorf("failed to insert therapist: %w", err), "Therapist")
		}
		return nil
	})
	return id, err
}

func (s *Storage) Therapist(id domain.UserId) (domain.Therapist, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.therapists, facade.NewFilter().Eq("t.user_id", id), "Therapist", scanTherapist)
}

func (s *Storage) Therapists(q domain.TherapistQuery) (domain.List[domain.Therapist], error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Status != "" {
		filter.Eq("t.status", q.Status)
	}
	if q.Search != "" {
		filter.Or(
			facade.NewFilter().Like("t.firstname", q.Search),
			facade.NewFilter().Like("t.lastname", q.Search),
			facade.NewFilter().Like("u.email", q.Search),
			facade.NewFilter().Like("t.institution", q.Search),
		)
	}
	order := []facade.Order{facade.Asc("t.lastname"), facade.Asc("t.firstname"), facade.Asc("t.user_id")}
	return list(ctx, s.db, s.f.therapists, filter, order, q.Page, scanTherapist)
}

// UpdateTherapist updates the profile and the account of a therapist together.
func (s *Storage) UpdateTherapist(id domain.UserId, upd domain.TherapistUpdate, user domain.UserUpdate) error {
	ctx, cancel := timeout()
	defer cancel()

	attrs := facade.NewAttributes()
	if upd.Firstname != nil {
		attrs.Set("firstname", *upd.Firstname)
	}
	if upd.Lastname != nil {
		attrs.Set("lastname", *upd.Lastname)
	}
	if upd.Phone != nil {
		attrs.Set("phone", *upd.Phone)
	}
	if upd.Institution != nil {
		attrs.Set("institution", *upd.Institution)
	}
	if upd.Status != nil {
		attrs.Set("status", *upd.Status)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if attrs.Len() > 0 {
			query, args, err := s.f.therapistTable.UpdateQuery(attrs, facade.NewFilter().Eq("user_id", id))
			if err := exec(ctx, tx, query, args, err, "Therapist"); err != nil {
				return err
			}
		}
		return s.updateUser(ctx, tx, id, user)
	})
}

// =========================================================================
// Patients
// =========================================================================

// CreatePatient inserts the user and the patient profile in one transaction
// and returns the new user id.
func (s *Storage) CreatePatient(user domain.User, p domain.Patient) (domain.UserId, error) {
	ctx, cancel := timeout()
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = s.createUser(ctx, tx, user); err != nil {
			return err
		}
		attrs := facade.NewAttributes().
			Set("user_id", id).
			Set("therapist_id", p.TherapistId).
			Set("firstname", p.Firstname).
			Set("lastname", p.Lastname).
			Set("birthdate", dateArg(p.Birthdate)).
			Set("info", p.Info)
		if _, err := insert(ctx, tx, s.f.patientTable, attrs); err != nil {
			return sqldb.MapError(fmt.Errorf("failed to insert patient: %w", err), "Patient")
		}
		return nil
	})
	return id, err
}

func (s *Storage) Patient(id domain.UserId) (domain.Patient, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.patients, facade.NewFilter().Eq("p.user_id", id), "Patient", scanPatient)
}

func (s *Storage) Patients(q domain.PatientQuery) (domain.List[domain.Patient], error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.TherapistId != 0 {
		filter.Eq("p.therapist_id", q.TherapistId)
	}
	if q.Search != "" {
		filter.Or(
			facade.NewFilter().Like("p.firstname", q.Search),
			facade.NewFilter().Like("p.lastname", q.Search),
			facade.NewFilter().Like("u.username", q.Search),
		)
	}
	order := []facade.Order{facade.Asc("p.lastname"), facade.Asc("p.firstname"), facade.Asc("p.user_id")}
	return list(ctx, s.db, s.f.patients, filter, order, q.Page, scanPatient)
}

// UpdatePatient updates the profile and the account of a patient together.
func (s *Storage) UpdatePatient(id domain.UserId, upd domain.PatientUpdate, user domain.UserUpdate) error {
	ctx, cancel := timeout()
	defer cancel()

	attrs := facade.NewAttributes()
	if upd.TherapistId != nil {
		attrs.Set("therapist_id", *upd.TherapistId)
	}
	if upd.Firstname != nil {
		attrs.Set("firstname", *upd.Firstname)
	}
	if upd.Lastname != nil {
		attrs.Set("lastname", *upd.Lastname)
	}
	if upd.Birthdate != nil {
		attrs.Set("birthdate", dateArg(upd.Birthdate))
	}
	if upd.Info != nil {
		attrs.Set("info", *upd.Info)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if attrs.Len() > 0 {
			query, args, err := s.f.patientTable.UpdateQuery(attrs, facade.NewFilter().Eq("user_id", id))
			if err := exec(ctx, tx, query, args, err, "Patient"); err != nil {
				return err
			}
		}
		return s.updateUser(ctx, tx, id, user)
	})
}

// dateArg binds a DATE column as yyyy-mm-dd, which both drivers accept.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func scanTherapist(r scanner) (domain.Therapist, error) {
	var (
		t         domain.Therapist
		lastLogin sql.NullTime
	)
	dest := append([]any{&t.Id, &t.Firstname, &t.Lastname, &t.Phone, &t.Institution, &t.Status},
		userDest(&t.User, &lastLogin)...)
	if err := r.Scan(dest...); err != nil {
		return domain.Therapist{}, err
	}
	t.User.LastLogin = nullTime(lastLogin)
	t.User.Created = t.User.Created.UTC()
	t.User.Modified = t.User.Modified.UTC()
	return t, nil
}

func scanPatient(r scanner) (domain.Patient, error) {
	var (
		p          domain.Patient
		birthdate  sql.NullTime
		lastLogin  sql.NullTime
		tFirstname sql.NullString
		tLastname  sql.NullString
	)
	dest := []any{&p.Id, &p.TherapistId, &p.Firstname, &p.Lastname, &birthdate, &p.Info}
	dest = append(dest, userDest(&p.User, &lastLogin)...)
	dest = append(dest, &tFirstname, &tLastname)
	if err := r.Scan(dest...); err != nil {
		return domain.Patient{}, err
	}
	p.Birthdate = nullTime(birthdate)
	p.User.LastLogin = nullTime(lastLogin)
	p.User.Created = p.User.Created.UTC()
	p.User.Modified = p.User.Modified.UTC()
	if tFirstname.Valid {
		p.TherapistName = tFirstname.String + " " + tLastname.String
	}
	return p, nil
}
