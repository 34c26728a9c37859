package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
)

//go:embed migrations
var migrationFiles embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) NOT NULL PRIMARY KEY,
    applied_at TIMESTAMP    NOT NULL
)`

// Migrate applies the embedded migrations of the dialect that were not applied
// yet, in file name order. Applied versions are kept in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, d facade.Dialect) (int, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	versions := facade.New(d, "schema_migrations", "").Select("version")
	applied := make(map[string]bool)
	query, args := versions.SelectQuery(nil, nil, facade.Page{})
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("rows iteration error: %w", err)
	}

	dir := "migrations/" + d.String()
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	count := 0
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		if applied[version] {
			continue
		}
		content, err := fs.ReadFile(migrationFiles, dir+"/"+name)
		if err != nil {
			return count, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return count, fmt.Errorf("migration %s failed: %w", name, err)
			}
		}
		insert, args, err := versions.InsertQuery(facade.NewAttributes().
			Set("version", version).
			Set("applied_at", time.Now().UTC()))
		if err != nil {
			return count, err
		}
		if _, err := db.ExecContext(ctx, insert, args...); err != nil {
			return count, fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		logger.Log.Info("applied migration", "component", "migrate", "version", version, "dialect", d.String())
		count++
	}
	return count, nil
}

// SplitStatements splits a migration script into single statements on
// semicolons that end a line. Full-line "--" comments are dropped.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			stmts = append(stmts, strings.TrimSuffix(stmt, ";"))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
