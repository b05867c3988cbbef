// Package ingest implements the batch ingestion loader: it discovers yearly
// raw extracts, merges them into one in-memory batch with provenance
// stamping and baseline type coercion, and writes the cleaned-batch artifact
// checkpoint before the batch is handed to cleaning and materialization.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ecometl/internal/clean"
	"ecometl/internal/datasource/file"
	csvparser "ecometl/internal/parser/csv"
	"ecometl/pkg/records"
)

// ErrNoSourceFiles is returned when no yearly extract exists at all. The run
// aborts and any prior persisted snapshot remains untouched.
var ErrNoSourceFiles = errors.New("no source files found")

// Default year range of candidate extracts.
const (
	DefaultFirstYear = 2015
	DefaultLastYear  = 2025
)

// yearFilePattern names one yearly extract, e.g. amazon_india_2017.csv.
const yearFilePattern = "amazon_india_%d.csv"

// CatalogFileName is the optional product catalog extract.
const CatalogFileName = "amazon_india_products_catalog.csv"

// RequiredColumns is the checklist every ingested batch must carry. Missing
// columns are synthesized as entirely-missing rather than failing; downstream
// consumers tolerate all-missing columns.
var RequiredColumns = []string{
	"transaction_id",
	"customer_id",
	"product_id",
	"order_date",
	"final_amount_inr",
	"customer_city",
	"customer_state",
	"payment_method",
	"delivery_days",
	"is_prime_member",
}

// Loader discovers and merges yearly raw extracts.
type Loader struct {
	// RawDir is the directory holding yearly extract files.
	RawDir string

	// FirstYear and LastYear bound the contiguous candidate year range,
	// inclusive. Zero values fall back to the defaults.
	FirstYear int
	LastYear  int

	// Workers bounds concurrent per-year file loads. Zero means 4. The final
	// batch order is deterministic (year-ascending, then file order)
	// regardless of load concurrency.
	Workers int
}

// Result is the merged, baseline-coerced batch plus per-run bookkeeping.
type Result struct {
	Batch []records.Record

	// YearsLoaded lists the years whose files were present, ascending.
	YearsLoaded []int

	// YearsMissing lists the candidate years with no file, ascending.
	YearsMissing []int

	// RowsSkipped counts raw rows the parser dropped (bad width or quoting).
	RowsSkipped int
}

// Load discovers the yearly files, parses the present ones concurrently, and
// returns the merged batch in year-ascending order. Missing years are
// warnings; zero files is ErrNoSourceFiles.
func (l Loader) Load(ctx context.Context) (*Result, error) {
	first, last := l.FirstYear, l.LastYear
	if first == 0 {
		first = DefaultFirstYear
	}
	if last == 0 {
		last = DefaultLastYear
	}
	if last < first {
		return nil, fmt.Errorf("year range %d..%d is inverted", first, last)
	}

	type yearBatch struct {
		recs    []records.Record
		skipped int
	}
	present := make([]int, 0, last-first+1)
	missing := make([]int, 0, last-first+1)
	for year := first; year <= last; year++ {
		name := fmt.Sprintf(yearFilePattern, year)
		if _, err := os.Stat(filepath.Join(l.RawDir, name)); err != nil {
			missing = append(missing, year)
			log.Printf("ingest: missing file: %s", name)
			continue
		}
		present = append(present, year)
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSourceFiles, l.RawDir)
	}

	workers := l.Workers
	if workers <= 0 {
		workers = 4
	}

	byYear := make(map[int]yearBatch, len(present))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, year := range present {
		g.Go(func() error {
			path := filepath.Join(l.RawDir, fmt.Sprintf(yearFilePattern, year))
			recs, skipped, err := loadFile(gctx, path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			for _, rec := range recs {
				rec["order_year"] = year
			}
			mu.Lock()
			byYear[year] = yearBatch{recs: recs, skipped: skipped}
			mu.Unlock()
			log.Printf("ingest: loaded %s rows=%d skipped=%d", filepath.Base(path), len(recs), skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(present)
	res := &Result{YearsLoaded: present, YearsMissing: missing}
	for _, year := range present {
		yb := byYear[year]
		res.Batch = append(res.Batch, yb.recs...)
		res.RowsSkipped += yb.skipped
	}

	synthesizeRequired(res.Batch)
	coerceBaseline(res.Batch)
	return res, nil
}

// LoadCatalog loads the optional product catalog. A missing catalog returns
// (nil, nil): category-based reporting then degrades to empty joins.
func (l Loader) LoadCatalog(ctx context.Context) ([]records.Record, error) {
	path := filepath.Join(l.RawDir, CatalogFileName)
	if _, err := os.Stat(path); err != nil {
		log.Printf("ingest: products catalog not found, skipping products table")
		return nil, nil
	}
	recs, skipped, err := loadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	log.Printf("ingest: loaded %s rows=%d skipped=%d", CatalogFileName, len(recs), skipped)
	return recs, nil
}

// loadFile parses one CSV extract with canonical header normalization.
func loadFile(ctx context.Context, path string) ([]records.Record, int, error) {
	f, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	p := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		TrimSpace: true,
	})
	return p.Parse(f)
}

// synthesizeRequired ensures every record carries the required-column
// checklist, filling absent columns with nil.
func synthesizeRequired(batch []records.Record) {
	for _, rec := range batch {
		for _, col := range RequiredColumns {
			if _, ok := rec[col]; !ok {
				rec[col] = nil
			}
		}
	}
}

// coerceBaseline applies the loader's lightweight coercion: dates parsed,
// currency and delivery-days numeric, prime flag mapped from a
// case-insensitive truthy vocabulary. This is deliberately less strict than
// the record cleaner; the artifact it feeds is a raw-but-typed checkpoint,
// not the analysis-ready table.
func coerceBaseline(batch []records.Record) {
	for _, rec := range batch {
		if s, ok := rec["order_date"].(string); ok {
			if t, parsed := clean.ParseDate(s); parsed {
				rec["order_date"] = t
			}
		}
		if v, ok := rec["final_amount_inr"]; ok && v != nil {
			if f, parsed := clean.ParseCurrency(v); parsed {
				rec["final_amount_inr"] = f
			}
		}
		if v, ok := rec["delivery_days"]; ok && v != nil {
			if n, parsed := clean.ParseDeliveryDays(v); parsed {
				rec["delivery_days"] = n
			}
		}
		rec["is_prime_member"] = truthy(rec["is_prime_member"])
	}
}

// truthy is the baseline two-state prime-membership mapping: a
// case-insensitive member of {"true","1","yes","y"} (or an actual true) is
// true, anything else false. The cleaner's tri-state normalizer supersedes
// this on the analysis path.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t == 1
	case float64:
		return t == 1
	case string:
		switch strings.ToLower(t) {
		case "true", "1", "yes", "y":
			return true
		}
	}
	return false
}
