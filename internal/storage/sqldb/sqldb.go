// Package sqldb provides the database primitives the storage layer is built on.
//
// Core Components:
//   - Querier: interface for transaction-agnostic database operations
//   - WithTx: helper for managing database transactions
//   - Connect: configurable connection establishment for MySQL and PostgreSQL
//   - Migrate: embedded schema migrations per dialect
//   - MapError: driver errors translated into status-carrying errors
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // Registers the MySQL driver
	_ "github.com/lib/pq"              // Registers the PostgreSQL driver

	"github.com/mindgames-dev/mindgames/internal/storage/facade"
)

// Querier is satisfied by both *sql.DB (single operations on the pool) and
// *sql.Tx (operations inside a transaction), so storage logic written against
// it works in both contexts.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// Connect opens a pool for the dialect's driver, applies the pool settings
// and verifies connectivity with a ping.
func Connect(ctx context.Context, d facade.Dialect, dsn string, connCfg ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// WithTx executes fn within a transaction. An error returned by fn rolls the
// transaction back, otherwise it is committed. The deferred Rollback is a
// no-op after a successful commit.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
