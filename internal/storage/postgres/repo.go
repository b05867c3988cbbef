// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5. Snapshot replacement COPYs rows into a staging table and swaps it in
// with a drop-and-rename inside one transaction, mirroring the SQLite
// backend's semantics for deployments that point the pipeline at a shared
// warehouse instead of a local file.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecometl/internal/storage"
	"ecometl/pkg/records"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool}, closeFn, nil
}

// pgIdent quotes a single identifier.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sqlType maps backend-neutral column kinds onto Postgres types. Dates are
// stored as "YYYY-MM-DD" text and booleans as 0/1 smallints so both backends
// persist identical values.
func sqlType(kind string) string {
	switch kind {
	case "integer":
		return "BIGINT"
	case "bool":
		return "SMALLINT"
	case "real":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func createSQL(name string, cols []storage.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s %s", pgIdent(c.Name), sqlType(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgIdent(name), strings.Join(parts, ", "))
}

// Replace persists a full snapshot of table via COPY into a staging table
// followed by drop-and-rename, all inside one transaction.
func (r *Repository) Replace(ctx context.Context, table storage.Table, rows [][]any) (int64, error) {
	staging := table.Name + "__staging"
	columns := table.ColumnNames()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: acquire: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgIdent(staging)); err != nil {
		return 0, fmt.Errorf("postgres: drop stale staging: %w", err)
	}
	if _, err := tx.Exec(ctx, createSQL(staging, table.Columns)); err != nil {
		return 0, fmt.Errorf("postgres: create staging: %w", err)
	}

	inserted, err := tx.CopyFrom(ctx, pgx.Identifier{staging}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return inserted, fmt.Errorf("postgres: copy into %s: %w", staging, err)
	}

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgIdent(table.Name)); err != nil {
		return inserted, fmt.Errorf("postgres: drop prior snapshot: %w", err)
	}
	rename := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", pgIdent(staging), pgIdent(table.Name))
	if _, err := tx.Exec(ctx, rename); err != nil {
		return inserted, fmt.Errorf("postgres: rename staging: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return inserted, fmt.Errorf("postgres: commit: %w", err)
	}
	return inserted, nil
}

// EnsureIndexes (re)builds the table's supporting lookups.
func (r *Repository) EnsureIndexes(ctx context.Context, table storage.Table) error {
	for _, idx := range table.Indexes {
		q := fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s(%s)",
			pgIdent(idx.Name), pgIdent(table.Name), pgIdent(idx.Column),
		)
		if _, err := r.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("postgres: create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// Query runs a read-only statement and materializes the result rows. The
// query arrives with '?' placeholders; rebind rewrites them to pgx's $N form.
func (r *Repository) Query(ctx context.Context, query string, args ...any) ([]records.Record, error) {
	rows, err := r.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []records.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		rec := make(records.Record, len(fields))
		for i, f := range fields {
			rec[f.Name] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return out, nil
}

// Exec executes an arbitrary SQL statement.
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, rebind(query), args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// rebind rewrites '?' placeholders to Postgres-style $1..$N. Question marks
// inside single-quoted literals are left alone.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
