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
// Application logs
// =========================================================================

func (s *Storage) CreateLog(e domain.LogEntry) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	created := e.Created
	if created.IsZero() {
		created = s.now()
	}
	var userId any
	if e.UserId != nil {
		userId = *e.UserId
	}
	attrs := facade.NewAttributes().
		Set("user_id", userId).
		Set("level", e.Level).
		Set("source", e.Source).
		Set("method", e.Method).
		Set("url", e.Url).
		Set("message", e.Message).
		Set("created", created.UTC())
	id, err := insert(ctx, s.db, s.f.logs, attrs)
	if err != nil {
		return 0, sqldb.MapError(fmt.Errorf("failed to insert log: %w", err), "Log")
	}
	return id, nil
}

func (s *Storage) Logs(q domain.LogQuery) (domain.List[domain.LogEntry], error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Level != "" {
		filter.Eq("l.level", q.Level)
	}
	if q.Source != "" {
		filter.Eq("l.source", q.Source)
	}
	if q.UserId != 0 {
		filter.Eq("l.user_id", q.UserId)
	}
	if q.From != nil {
		filter.Gte("l.created", q.From.UTC())
	}
	if q.To != nil {
		filter.Lte("l.created", q.To.UTC())
	}
	order := []facade.Order{facade.Desc("l.created"), facade.Desc("l.id")}
	return list(ctx, s.db, s.f.logs, filter, order, q.Page, scanLog)
}

// DeleteLogsBefore removes log entries created before t and returns how many
// were removed.
func (s *Storage) DeleteLogsBefore(t time.Time) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.logs.DeleteQuery(facade.NewFilter().Lt("created", t.UTC()))
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs: %w", err)
	}
	return res.RowsAffected()
}

func scanLog(r scanner) (domain.LogEntry, error) {
	var (
		e      domain.LogEntry
		userId sql.NullInt64
	)
	if err := r.Scan(&e.Id, &userId, &e.Level, &e.Source, &e.Method, &e.Url, &e.Message, &e.Created); err != nil {
		return domain.LogEntry{}, err
	}
	if userId.Valid {
		id := userId.Int64
		e.UserId = &id
	}
	e.Created = e.Created.UTC()
	return e, nil
}

// =========================================================================
// SMTP logs
// =========================================================================

func (s *Storage) CreateSmtpLog(l domain.SmtpLog) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	created := l.Created
	if created.IsZero() {
		created = s.now()
	}
	attrs := facade.NewAttributes().
		Set("recipient", l.Recipient).
		Set("subject", l.Subject).
		Set("status", l.Status).
		Set("error", l.Error).
		Set("created", created.UTC())
	id, err := insert(ctx, s.db, s.f.smtpLogs, attrs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert smtp log: %w", err)
	}
	return id, nil
}

func (s *Storage) SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter()
	if q.Status != "" {
		filter.Eq("m.status", q.Status)
	}
	order := []facade.Order{facade.Desc("m.created"), facade.Desc("m.id")}
	return list(ctx, s.db, s.f.smtpLogs, filter, order, q.Page, scanSmtpLog)
}

func scanSmtpLog(r scanner) (domain.SmtpLog, error) {
	var l domain.SmtpLog
	if err := r.Scan(&l.Id, &l.Recipient, &l.Subject, &l.Status, &l.Error, &l.Created); err != nil {
		return domain.SmtpLog{}, err
	}
	l.Created = l.Created.UTC()
	return l, nil
}
