package storage

import (
	"fmt"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
	"github.com/mindgames-dev/mindgames/internal/storage/sqldb"
)

// =========================================================================
// Error texts
// =========================================================================

func (s *Storage) CreateErrortext(e domain.Errortext) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	now := s.now()
	attrs := facade.NewAttributes().
		Set("code", e.Code).
		Set("language", e.Language).
		Set("text", e.Text).
		Set("severity", e.Severity).
		Set("created", now).
		Set("modified", now)
	id, err := insert(ctx, s.db, s.f.errortexts, attrs)
	if err != nil {
		return 0, sqldb.MapError(fmt.Errorf("failed to insert errortext: %w", err), "Errortext")
	}
	return id, nil
}

func (s *Storage) Errortext(id int64) (domain.Errortext, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.errortexts, facade.NewFilter().Eq("e.id", id), "Errortext", scanErrortext)
}

func (s *Storage) Errortexts(q domain.ErrortextQuery) ([]domain.Errortext, error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Code != "" {
		filter.Eq("e.code", q.Code)
	}
	if q.Language != "" {
		filter.Eq("e.language", q.Language)
	}
	order := []facade.Order{facade.Asc("e.code"), facade.Asc("e.language")}
	return all(ctx, s.db, s.f.errortexts, filter, order, domain.Page{}, scanErrortext)
}

// UpdateErrortext overwrites the text fields of an errortext.
func (s *Storage) UpdateErrortext(e domain.Errortext) error {
	ctx, cancel := timeout()
	defer cancel()
	attrs := facade.NewAttributes().
		Set("code", e.Code).
		Set("language", e.Language).
		Set("text", e.Text).
		Set("severity", e.Severity).
		Set("modified", s.now())
	query, args, err := s.f.errortexts.UpdateQuery(attrs, facade.NewFilter().Eq("id", e.Id))
	return exec(ctx, s.db, query, args, err, "Errortext")
}

func (s *Storage) DeleteErrortext(id int64) error {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.errortexts.DeleteQuery(facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "Errortext")
}

func scanErrortext(r scanner) (domain.Errortext, error) {
	var e domain.Errortext
	if err := r.Scan(&e.Id, &e.Code, &e.Language, &e.Text, &e.Severity, &e.Created, &e.Modified); err != nil {
		return domain.Errortext{}, err
	}
	e.Created = e.Created.UTC()
	e.Modified = e.Modified.UTC()
	return e, nil
}

// =========================================================================
// Help texts
// =========================================================================

func (s *Storage) CreateHelptext(h domain.Helptext) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	now := s.now()
	attrs := facade.NewAttributes().
		Set("name", h.Name).
		Set("page", h.Page).
		Set("language", h.Language).
		Set("markdown", h.Markdown).
		Set("created", now).
		Set("modified", now)
	id, err := insert(ctx, s.db, s.f.helptexts, attrs)
	if err != nil {
		return 0, sqldb.MapError(fmt.Errorf("failed to insert helptext: %w", err), "Helptext")
	}
	return id, nil
}

func (s *Storage) Helptext(id int64) (domain.Helptext, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.helptexts, facade.NewFilter().Eq("h.id", id), "Helptext", scanHelptext)
}

func (s *Storage) Helptexts(q domain.HelptextQuery) ([]domain.Helptext, error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Page != "" {
		filter.Eq("h.page", q.Page)
	}
	if q.Language != "" {
		filter.Eq("h.language", q.Language)
	}
	order := []facade.Order{facade.Asc("h.page"), facade.Asc("h.name"), facade.Asc("h.language")}
	return all(ctx, s.db, s.f.helptexts, filter, order, domain.Page{}, scanHelptext)
}

func (s *Storage) UpdateHelptext(h domain.Helptext) error {
	ctx, cancel := timeout()
	defer cancel()
	attrs := facade.NewAttributes().
		Set("name", h.Name).
		Set("page", h.Page).
		Set("language", h.Language).
		Set("markdown", h.Markdown).
		Set("modified", s.now())
	query, args, err := s.f.helptexts.UpdateQuery(attrs, facade.NewFilter().Eq("id", h.Id))
	return exec(ctx, s.db, query, args, err, "Helptext")
}

func (s *Storage) DeleteHelptext(id int64) error {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.helptexts.DeleteQuery(facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "Helptext")
}

func scanHelptext(r scanner) (domain.Helptext, error) {
	var h domain.Helptext
	if err := r.Scan(&h.Id, &h.Name, &h.Page, &h.Language, &h.Markdown, &h.Created, &h.Modified); err != nil {
		return domain.Helptext{}, err
	}
	h.Created = h.Created.UTC()
	h.Modified = h.Modified.UTC()
	return h, nil
}
