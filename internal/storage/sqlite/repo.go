// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. Snapshot replacement builds a staging table inside one
// transaction and swaps it in with a drop-and-rename, so readers never
// observe a half-loaded table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"ecometl/internal/storage"
	"ecometl/pkg/records"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:analytics.db?cache=shared"
//	"analytics.db"
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// The rebuild is single-writer; a single connection avoids table-lock
	// contention between the staging swap and index builds.
	db.SetMaxOpenConns(1)

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// sqlType maps backend-neutral column kinds onto SQLite storage classes.
// Dates are stored as "YYYY-MM-DD" text and booleans as 0/1 integers.
func sqlType(kind string) string {
	switch kind {
	case "integer", "bool":
		return "INTEGER"
	case "real":
		return "REAL"
	default:
		return "TEXT"
	}
}

// createSQL renders the CREATE TABLE statement for a staging table.
func createSQL(name string, cols []storage.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s %s", c.Name, sqlType(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(parts, ", "))
}

// Replace persists a full snapshot of table: rows are loaded into a fresh
// staging table and swapped in with drop-and-rename, all inside one
// transaction.
func (r *Repository) Replace(ctx context.Context, table storage.Table, rows [][]any) (int64, error) {
	staging := table.Name + "__staging"
	columns := table.ColumnNames()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return 0, fmt.Errorf("sqlite: drop stale staging: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createSQL(staging, table.Columns)); err != nil {
		return 0, fmt.Errorf("sqlite: create staging: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		staging, strings.Join(columns, ", "), placeholders,
	)
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return inserted, fmt.Errorf("sqlite: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert into %s: %w", staging, err)
		}
		inserted++
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table.Name); err != nil {
		return inserted, fmt.Errorf("sqlite: drop prior snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", staging, table.Name)); err != nil {
		return inserted, fmt.Errorf("sqlite: rename staging: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// EnsureIndexes (re)builds the table's supporting lookups. The staging swap
// drops prior indexes along with the old table, so this runs after every
// Replace.
func (r *Repository) EnsureIndexes(ctx context.Context, table storage.Table) error {
	for _, idx := range table.Indexes {
		q := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", idx.Name, table.Name, idx.Column)
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sqlite: create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// Query runs a read-only statement and materializes the result rows.
func (r *Repository) Query(ctx context.Context, query string, args ...any) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: columns: %w", err)
	}

	var out []records.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return out, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
