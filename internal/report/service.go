package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"

	"ecometl/internal/storage"
	"ecometl/pkg/records"
)

// DefaultTTL bounds how long a cached aggregate may be served before it is
// recomputed. Cached results must never be served stale indefinitely.
const DefaultTTL = 5 * time.Minute

// ErrStoreBusy marks a transient store condition (typically the brief window
// of a snapshot rebuild). Callers should retry rather than treat the result
// as data.
var ErrStoreBusy = errors.New("store temporarily unavailable")

// Service issues read-only aggregate queries against the materialized
// schema, memoizing results with a TTL.
type Service struct {
	repo  storage.Repository
	ttl   time.Duration
	cache *ristretto.Cache
}

// NewService constructs a Service over an open repository. A non-positive
// ttl falls back to DefaultTTL.
func NewService(repo storage.Repository, ttl time.Duration) (*Service, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 12,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("report: init cache: %w", err)
	}
	return &Service{repo: repo, ttl: ttl, cache: cache}, nil
}

// Close releases the cache.
func (s *Service) Close() {
	s.cache.Close()
}

// query runs one aggregate with TTL memoization. The cache key is the query
// name plus its bound arguments, so distinct year selections cache
// independently.
func (s *Service) query(ctx context.Context, name, q string, args []any) ([]records.Record, error) {
	key := cacheKey(name, args)
	if v, ok := s.cache.Get(key); ok {
		return v.([]records.Record), nil
	}
	rows, err := s.repo.Query(ctx, q, args...)
	if err != nil {
		if transient(err) {
			return nil, fmt.Errorf("%w: %v", ErrStoreBusy, err)
		}
		return nil, err
	}
	s.cache.SetWithTTL(key, rows, int64(len(rows)+1), s.ttl)
	return rows, nil
}

// Wait blocks until pending cache writes are visible. Intended for tests.
func (s *Service) Wait() { s.cache.Wait() }

func cacheKey(name string, args []any) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range args {
		b.WriteByte('|')
		fmt.Fprint(&b, a)
	}
	return b.String()
}

// transient reports whether err looks like the store being briefly
// unavailable during a rebuild, as opposed to a real query failure.
func transient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "database is locked") ||
		strings.Contains(s, "database table is locked") ||
		strings.Contains(s, "busy")
}

// Years returns the distinct order years present in the fact table,
// ascending. The dashboard uses it to populate its year filter.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	rows, err := s.query(ctx, "years",
		"SELECT DISTINCT order_year FROM transactions ORDER BY order_year", nil)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, int(asInt(r["order_year"])))
	}
	sort.Ints(out)
	return out, nil
}
