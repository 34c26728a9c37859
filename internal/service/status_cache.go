package service

import (
	"context"
	"sync"
	"time"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type StatusStorage interface {
	Accounts() ([]domain.Account, error)
	Account(id domain.UserId) (domain.Account, error)
}

// StatusCache keeps the role and status of every account in memory so the
// auth middleware can check tokens against them without a query per request.
// Ids missing from the snapshot are looked up once and remembered until the
// next update, unknown ones as deleted.
type StatusCache struct {
	storage  StatusStorage
	accounts map[domain.UserId]domain.Account
	deleted  map[domain.UserId]bool
	mu       sync.RWMutex
}

func NewStatusCache(storage StatusStorage) *StatusCache {
	return &StatusCache{
		storage:  storage,
		accounts: make(map[domain.UserId]domain.Account),
		deleted:  make(map[domain.UserId]bool),
	}
}

func (c *StatusCache) Update() error {
	list, err := c.storage.Accounts()
	if err != nil {
		return err
	}

	accounts := make(map[domain.UserId]domain.Account, len(list))
	blocked := 0
	for _, a := range list {
		accounts[a.Id] = a
		if a.Status != domain.UserActive {
			blocked++
		}
	}

	c.mu.Lock()
	c.accounts = accounts
	c.deleted = make(map[domain.UserId]bool)
	c.mu.Unlock()

	logger.Log.Debug("status cache updated", "accounts", len(accounts), "blocked", blocked)
	return nil
}

// Account returns the current role and status of id. Deleted users yield a
// NotFound error.
func (c *StatusCache) Account(id domain.UserId) (domain.Account, error) {
	c.mu.RLock()
	a, ok := c.accounts[id]
	gone := c.deleted[id]
	c.mu.RUnlock()
	if ok {
		return a, nil
	}
	if gone {
		return domain.Account{}, errors.NotFound("User not found")
	}

	a, err := c.storage.Account(id)
	if err != nil {
		if errors.IsNotFound(err) {
			c.mu.Lock()
			c.deleted[id] = true
			c.mu.Unlock()
		}
		return domain.Account{}, err
	}
	c.mu.Lock()
	c.accounts[id] = a
	c.mu.Unlock()
	return a, nil
}

// IsBlocked reports deleted accounts and accounts that are not active.
func (c *StatusCache) IsBlocked(id domain.UserId) bool {
	a, err := c.Account(id)
	return err != nil || a.Status != domain.UserActive
}

// refresh updates the cache and logs failures, the old snapshot stays in use.
func (c *StatusCache) refresh(reason string) {
	if c == nil {
		return
	}
	if err := c.Update(); err != nil {
		logger.Log.Warn("status cache update failed", "reason", reason, "error", err)
	}
}

// Run refreshes the cache every interval until ctx is done.
func (c *StatusCache) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Log.Info("status cache refresher started", "interval", interval)

	for {
		select {
		case <-ticker.C:
			c.refresh("tick")
		case <-ctx.Done():
			logger.Log.Info("status cache refresher stopped")
			return nil
		}
	}
}
