// Package storage contains storage-agnostic contracts for the materialized
// star schema. Concrete backends (SQLite, Postgres) register factories here
// at init time so the rest of the application never imports a database
// driver directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ecometl/pkg/records"
)

// Column describes one column of a persisted table using backend-neutral
// kinds: "text", "integer", "real", "date", "bool".
type Column struct {
	Name string
	Kind string
}

// Index names a supporting lookup on a single column.
type Index struct {
	Name   string
	Column string
}

// Table is the backend-neutral definition of one persisted table.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// ColumnNames returns the ordered column names of the table.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Repository is the single write/read surface over the persisted store.
//
// Replace has snapshot semantics: the new rows fully supersede any prior
// table of the same name, and the swap is atomic from a reader's
// perspective: a concurrent reader sees either the old table or the new
// one, never a half-loaded table.
type Repository interface {
	// Replace persists a full snapshot of table. Row values must be flat
	// scalars (nil, string, int64, float64) aligned to table.Columns.
	Replace(ctx context.Context, table Table, rows [][]any) (int64, error)

	// EnsureIndexes (re)builds the table's supporting lookups.
	EnsureIndexes(ctx context.Context, table Table) error

	// Query runs a read-only statement with '?' placeholders and returns the
	// materialized result rows. Backends using a different placeholder style
	// rebind internally.
	Query(ctx context.Context, query string, args ...any) ([]records.Record, error)

	// Exec runs an arbitrary statement (typically DDL).
	Exec(ctx context.Context, query string, args ...any) error

	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the registered backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string: a file path for SQLite, a
	// postgresql:// URL for Postgres.
	DSN string
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. It is
// typically called from backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
