package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

const maxLogMessageLen = 8000

type LogService interface {
	Record(e domain.LogEntry) (domain.LogEntry, error)
	ServerError(userId *domain.UserId, method, url, message string)
	List(q domain.LogQuery) (domain.List[domain.LogEntry], error)
	SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error)
}

type LogStorage interface {
	CreateLog(e domain.LogEntry) (int64, error)
	Logs(q domain.LogQuery) (domain.List[domain.LogEntry], error)
	DeleteLogsBefore(t time.Time) (int64, error)
	SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error)
}

type Logs struct {
	storage LogStorage
	cfg     *config.Public
	now     func() time.Time
}

func NewLogs(storage LogStorage, cfg *config.Public) *Logs {
	return &Logs{storage: storage, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// Record stores a log entry sent by a client.
func (s *Logs) Record(e domain.LogEntry) (domain.LogEntry, error) {
	if !e.Level.Valid() {
		return domain.LogEntry{}, errors.BadRequest("Invalid level")
	}
	e.Source = domain.LogSourceClient
	e.Message = truncate(e.Message, maxLogMessageLen)
	e.Created = s.now()

	id, err := s.storage.CreateLog(e)
	if err != nil {
		return domain.LogEntry{}, err
	}
	e.Id = id
	return e, nil
}

// ServerError persists an unexpected server failure. Storage problems are
// only logged, the request already failed.
func (s *Logs) ServerError(userId *domain.UserId, method, url, message string) {
	e := domain.LogEntry{
		UserId:  userId,
		Level:   domain.LogError,
		Source:  domain.LogSourceServer,
		Method:  method,
		Url:     truncate(url, 2048),
		Message: truncate(message, maxLogMessageLen),
		Created: s.now(),
	}
	if _, err := s.storage.CreateLog(e); err != nil {
		logger.Log.Error("failed to persist server error", "error", err)
	}
}

func (s *Logs) List(q domain.LogQuery) (domain.List[domain.LogEntry], error) {
	if q.Level != "" && !q.Level.Valid() {
		return domain.List[domain.LogEntry]{}, errors.BadRequest("Invalid level")
	}
	if q.Source != "" && q.Source != domain.LogSourceClient && q.Source != domain.LogSourceServer {
		return domain.List[domain.LogEntry]{}, errors.BadRequest("Invalid source")
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.Logs(q)
}

func (s *Logs) SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error) {
	if q.Status != "" && q.Status != domain.SmtpSent && q.Status != domain.SmtpFailed {
		return domain.List[domain.SmtpLog]{}, errors.BadRequest("Invalid status")
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.SmtpLogs(q)
}

// Prune deletes log rows older than the configured retention.
func (s *Logs) Prune() (int64, error) {
	n, err := s.storage.DeleteLogsBefore(s.now().Add(-s.cfg.LogRetention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("pruned logs", "deleted", n)
	}
	return n, nil
}

// RunPruner prunes once and then every interval until ctx is done.
func (s *Logs) RunPruner(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Log.Info("log pruner started", "interval", interval, "retention", s.cfg.LogRetention)

	for {
		if _, err := s.Prune(); err != nil {
			logger.Log.Error("log pruning failed", "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			logger.Log.Info("log pruner stopped")
			return nil
		}
	}
}
