package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecometl/internal/storage"
	"ecometl/pkg/records"
)

// fakeRepo records Replace/EnsureIndexes calls for materializer tests.
type fakeRepo struct {
	replaced  []string
	rowCounts map[string]int
	indexed   []string
	failOn    string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rowCounts: map[string]int{}}
}

func (f *fakeRepo) Replace(ctx context.Context, table storage.Table, rows [][]any) (int64, error) {
	if table.Name == f.failOn {
		return 0, errors.New("replace failed")
	}
	f.replaced = append(f.replaced, table.Name)
	f.rowCounts[table.Name] = len(rows)
	return int64(len(rows)), nil
}

func (f *fakeRepo) EnsureIndexes(ctx context.Context, table storage.Table) error {
	f.indexed = append(f.indexed, table.Name)
	return nil
}

func (f *fakeRepo) Query(ctx context.Context, query string, args ...any) ([]records.Record, error) {
	return nil, nil
}

func (f *fakeRepo) Exec(ctx context.Context, query string, args ...any) error { return nil }

func (f *fakeRepo) Close() {}

func factBatch() []records.Record {
	d1 := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2021, 6, 9, 0, 0, 0, 0, time.UTC)
	return []records.Record{
		{"transaction_id": "T1", "customer_id": "C1", "product_id": "P1", "order_date": d1},
		{"transaction_id": "T2", "customer_id": "C2", "product_id": "P2", "order_date": d2},
		{"transaction_id": "T3", "customer_id": "C1", "product_id": "P2", "order_date": d2},
	}
}

/*
TestMaterializerRun_AllTables verifies all four tables are replaced with the
derived row counts and the fact indexes are rebuilt last.
*/
func TestMaterializerRun_AllTables(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	products := []records.Record{{"product_id": "P1", "category": "Books"}}

	stats, err := Materializer{Repo: repo}.Run(context.Background(), factBatch(), products)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if stats.Transactions != 3 || stats.Customers != 2 || stats.TimeRows != 2 || stats.Products != 1 {
		t.Fatalf("stats = %+v, want 3/2/2/1", stats)
	}
	if got := len(repo.replaced); got != 4 {
		t.Fatalf("replaced %d tables, want 4: %v", got, repo.replaced)
	}
	if len(repo.indexed) != 1 || repo.indexed[0] != TableTransactions {
		t.Fatalf("indexed = %v, want just the fact table", repo.indexed)
	}
}

/*
TestMaterializerRun_NoCatalog verifies a nil products batch skips the catalog
table entirely.
*/
func TestMaterializerRun_NoCatalog(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	stats, err := Materializer{Repo: repo}.Run(context.Background(), factBatch(), nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if stats.Products != 0 {
		t.Fatalf("products stat = %d, want 0", stats.Products)
	}
	if _, ok := repo.rowCounts[TableProducts]; ok {
		t.Fatalf("products table was replaced despite nil catalog")
	}
}

/*
TestMaterializerRun_ReplaceErrorStops verifies a failed table replacement
aborts the run before the index rebuild.
*/
func TestMaterializerRun_ReplaceErrorStops(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.failOn = TableCustomers

	_, err := Materializer{Repo: repo}.Run(context.Background(), factBatch(), nil)
	if err == nil {
		t.Fatalf("expected error from failed replacement")
	}
	if len(repo.indexed) != 0 {
		t.Fatalf("indexes rebuilt after a failed replacement: %v", repo.indexed)
	}
}
