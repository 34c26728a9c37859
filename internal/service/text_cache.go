package service

import (
	"context"
	"sync"
	"time"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type ErrortextLoader interface {
	Errortexts(q domain.ErrortextQuery) ([]domain.Errortext, error)
}

// TextCache holds every errortext in memory. Clients fetch the whole table
// on startup, so reads never touch the database.
type TextCache struct {
	storage ErrortextLoader
	texts   []domain.Errortext
	byCode  map[string]map[domain.Language]domain.Errortext
	loaded  bool
	mu      sync.RWMutex
}

func NewTextCache(storage ErrortextLoader) *TextCache {
	return &TextCache{storage: storage}
}

func (c *TextCache) Update() error {
	texts, err := c.storage.Errortexts(domain.ErrortextQuery{})
	if err != nil {
		return err
	}

	byCode := make(map[string]map[domain.Language]domain.Errortext)
	for _, t := range texts {
		if byCode[t.Code] == nil {
			byCode[t.Code] = make(map[domain.Language]domain.Errortext)
		}
		byCode[t.Code][t.Language] = t
	}

	c.mu.Lock()
	c.texts = texts
	c.byCode = byCode
	c.loaded = true
	c.mu.Unlock()

	logger.Log.Debug("errortext cache updated", "texts", len(texts))
	return nil
}

func (c *TextCache) refresh(reason string) {
	if err := c.Update(); err != nil {
		logger.Log.Warn("errortext cache update failed", "reason", reason, "error", err)
	}
}

// Find returns the cached texts matching q, in storage order. The cache is
// loaded on first use when no refresher populated it yet.
func (c *TextCache) Find(q domain.ErrortextQuery) ([]domain.Errortext, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		if err := c.Update(); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Errortext, 0)
	for _, t := range c.texts {
		if q.Code != "" && t.Code != q.Code {
			continue
		}
		if q.Language != "" && t.Language != q.Language {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Lookup returns the text for code in lang, falling back to fallback.
func (c *TextCache) Lookup(code string, lang, fallback domain.Language) (domain.Errortext, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byLang := c.byCode[code]
	if t, ok := byLang[lang]; ok {
		return t, true
	}
	t, ok := byLang[fallback]
	return t, ok
}

func (c *TextCache) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Log.Info("errortext cache refresher started", "interval", interval)

	for {
		select {
		case <-ticker.C:
			c.refresh("tick")
		case <-ctx.Done():
			logger.Log.Info("errortext cache refresher stopped")
			return nil
		}
	}
}
