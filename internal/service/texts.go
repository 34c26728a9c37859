package service

import (
	"strings"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type ErrortextService interface {
	List(q domain.ErrortextQuery) ([]domain.Errortext, error)
	Get(id int64) (domain.Errortext, error)
	Create(e domain.Errortext) (domain.Errortext, error)
	Update(id int64, e domain.Errortext) (domain.Errortext, error)
	Delete(id int64) error
}

type ErrortextStorage interface {
	CreateErrortext(e domain.Errortext) (int64, error)
	Errortext(id int64) (domain.Errortext, error)
	Errortexts(q domain.ErrortextQuery) ([]domain.Errortext, error)
	UpdateErrortext(e domain.Errortext) error
	DeleteErrortext(id int64) error
}

type Errortexts struct {
	storage ErrortextStorage
	cache   *TextCache
	cfg     *config.Public
}

func NewErrortexts(storage ErrortextStorage, cache *TextCache, cfg *config.Public) *Errortexts {
	return &Errortexts{storage: storage, cache: cache, cfg: cfg}
}

// List serves from the cache. A single code asked for in a language without
// a translation falls back to the default language.
func (s *Errortexts) List(q domain.ErrortextQuery) ([]domain.Errortext, error) {
	q.Language = strings.ToLower(q.Language)
	texts, err := s.cache.Find(q)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 && q.Code != "" && q.Language != "" && q.Language != s.cfg.DefaultLanguage {
		if t, ok := s.cache.Lookup(q.Code, q.Language, s.cfg.DefaultLanguage); ok {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

func (s *Errortexts) Get(id int64) (domain.Errortext, error) {
	return s.storage.Errortext(id)
}

func (s *Errortexts) prepare(e *domain.Errortext) error {
	if e.Severity == "" {
		e.Severity = domain.SeverityError
	}
	if !e.Severity.Valid() {
		return errors.BadRequest("Invalid severity")
	}
	e.Language = language(e.Language, s.cfg)
	return nil
}

func (s *Errortexts) Create(e domain.Errortext) (domain.Errortext, error) {
	if err := s.prepare(&e); err != nil {
		return domain.Errortext{}, err
	}
	id, err := s.storage.CreateErrortext(e)
	if err != nil {
		return domain.Errortext{}, err
	}
	s.cache.refresh("errortext created")
	return s.storage.Errortext(id)
}

func (s *Errortexts) Update(id int64, e domain.Errortext) (domain.Errortext, error) {
	if err := s.prepare(&e); err != nil {
		return domain.Errortext{}, err
	}
	e.Id = id
	if err := s.storage.UpdateErrortext(e); err != nil {
		return domain.Errortext{}, err
	}
	s.cache.refresh("errortext updated")
	return s.storage.Errortext(id)
}

func (s *Errortexts) Delete(id int64) error {
	if err := s.storage.DeleteErrortext(id); err != nil {
		return err
	}
	s.cache.refresh("errortext deleted")
	return nil
}

type HelptextService interface {
	List(q domain.HelptextQuery) ([]domain.Helptext, error)
	Get(id int64) (domain.Helptext, error)
	Create(h domain.Helptext) (domain.Helptext, error)
	Update(id int64, h domain.Helptext) (domain.Helptext, error)
	Delete(id int64) error
}

type HelptextStorage interface {
	CreateHelptext(h domain.Helptext) (int64, error)
	Helptext(id int64) (domain.Helptext, error)
	Helptexts(q domain.HelptextQuery) ([]domain.Helptext, error)
	UpdateHelptext(h domain.Helptext) error
	DeleteHelptext(id int64) error
}

type Renderer interface {
	Render(markdown string) (string, error)
}

type Helptexts struct {
	storage  HelptextStorage
	renderer Renderer
	cfg      *config.Public
}

func NewHelptexts(storage HelptextStorage, renderer Renderer, cfg *config.Public) *Helptexts {
	return &Helptexts{storage: storage, renderer: renderer, cfg: cfg}
}

// render fills HTML from the stored markdown. A text that fails to render is
// still returned without HTML.
func (s *Helptexts) render(h *domain.Helptext) {
	html, err := s.renderer.Render(h.Markdown)
	if err != nil {
		logger.Log.Warn("failed to render helptext", "id", h.Id, "error", err)
		return
	}
	h.HTML = html
}

func (s *Helptexts) List(q domain.HelptextQuery) ([]domain.Helptext, error) {
	q.Language = strings.ToLower(q.Language)
	texts, err := s.storage.Helptexts(q)
	if err != nil {
		return nil, err
	}
	for i := range texts {
		s.render(&texts[i])
	}
	return texts, nil
}

func (s *Helptexts) Get(id int64) (domain.Helptext, error) {
	h, err := s.storage.Helptext(id)
	if err != nil {
		return domain.Helptext{}, err
	}
	s.render(&h)
	return h, nil
}

func (s *Helptexts) Create(h domain.Helptext) (domain.Helptext, error) {
	h.Language = language(h.Language, s.cfg)
	id, err := s.storage.CreateHelptext(h)
	if err != nil {
		return domain.Helptext{}, err
	}
	return s.Get(id)
}

func (s *Helptexts) Update(id int64, h domain.Helptext) (domain.Helptext, error) {
	h.Id = id
	h.Language = language(h.Language, s.cfg)
	if err := s.storage.UpdateHelptext(h); err != nil {
		return domain.Helptext{}, err
	}
	return s.Get(id)
}

func (s *Helptexts) Delete(id int64) error {
	return s.storage.DeleteHelptext(id)
}
