// Package storage implements the service storage interfaces on top of the
// facade query layer. Every entity has a facade describing its table, its
// joins and its column list; the methods here only bind values and scan rows.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
	"github.com/mindgames-dev/mindgames/internal/storage/sqldb"
)

const opTimeout = 5 * time.Second

type Storage struct {
	db      *sql.DB
	dialect facade.Dialect
	f       facades
	now     func() time.Time
}

// New connects to the configured database.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	d, err := facade.ParseDialect(cfg.Public.Database.Dialect)
	if err != nil {
		return nil, err
	}
	connCfg := sqldb.DefaultConnectionConfig()
	connCfg.MaxOpenConns = cfg.Public.Database.MaxOpenConns
	connCfg.MaxIdleConns = cfg.Public.Database.MaxIdleConns
	connCfg.ConnMaxLifetime = cfg.Public.Database.ConnMaxLifetime

	logger.Log.Info("connecting to database", "dialect", d.String(), "host", cfg.Public.Database.Host)
	db, err := sqldb.Connect(ctx, d, cfg.DSN(), connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to database")
	return NewWithDB(db, d), nil
}

// NewWithDB wraps an open pool. The Storage takes ownership of db.
func NewWithDB(db *sql.DB, d facade.Dialect) *Storage {
	return &Storage{
		db:      db,
		dialect: d,
		f:       newFacades(d),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *Storage) DB() *sql.DB             { return s.db }
func (s *Storage) Dialect() facade.Dialect { return s.dialect }
func (s *Storage) Cleanup() error          { return s.db.Close() }
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Migrate applies pending schema migrations.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	return sqldb.Migrate(ctx, s.db, s.dialect)
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return sqldb.WithTx(ctx, s.db, fn)
}

func timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// insert runs an INSERT and returns the generated key, read either from
// RETURNING or from LastInsertId depending on the dialect.
func insert(ctx context.Context, q sqldb.Querier, f *facade.Facade, attrs *facade.Attributes) (int64, error) {
	query, args, err := f.InsertQuery(attrs)
	if err != nil {
		return 0, err
	}
	if f.ReturnsID() {
		var id int64
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// exec runs a write built by the facade. It reports a NotFound error naming
// what when no row was affected.
func exec(ctx context.Context, q sqldb.Querier, query string, args []any, buildErr error, what string) error {
	if buildErr != nil {
		return buildErr
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return sqldb.MapError(fmt.Errorf("failed to write %s: %w", what, err), what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return sqldb.MapError(sql.ErrNoRows, what)
	}
	return nil
}

func count(ctx context.Context, q sqldb.Querier, f *facade.Facade, filter *facade.Filter) (int, error) {
	query, args := f.CountQuery(filter)
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// list counts the matching rows and reads one page of them.
func list[T any](ctx context.Context, q sqldb.Querier, f *facade.Facade, filter *facade.Filter, order []facade.Order, page domain.Page, scan func(scanner) (T, error)) (domain.List[T], error) {
	total, err := count(ctx, q, f, filter)
	if err != nil {
		return domain.List[T]{}, err
	}
	items, err := all(ctx, q, f, filter, order, page, scan)
	if err != nil {
		return domain.List[T]{}, err
	}
	return domain.List[T]{Items: items, Total: total}, nil
}

func all[T any](ctx context.Context, q sqldb.Querier, f *facade.Facade, filter *facade.Filter, order []facade.Order, page domain.Page, scan func(scanner) (T, error)) ([]T, error) {
	query, args := f.SelectQuery(filter, order, facade.Page{Limit: page.Limit, Offset: page.Offset})
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", f.Table(), err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", f.Table(), err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return items, nil
}

func one[T any](ctx context.Context, q sqldb.Querier, f *facade.Facade, filter *facade.Filter, what string, scan func(scanner) (T, error)) (T, error) {
	query, args := f.SelectQuery(filter, nil, facade.Page{Limit: 1})
	item, err := scan(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, sqldb.MapError(err, what)
	}
	return item, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// jsonArg binds a JSON document as text, nil for an empty document.
func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
