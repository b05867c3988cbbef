package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ecometl/internal/clean"
	"ecometl/internal/config"
	"ecometl/internal/ingest"
	"ecometl/internal/metrics"
	"ecometl/internal/schema"
	"ecometl/internal/storage"
)

// run executes one batch: load the raw extracts, write the cleaned
// checkpoint, apply strict cleaning, and rebuild the warehouse tables.
// Every stage is timed and reported through the metrics backend.
func run(ctx context.Context, p config.Pipeline) error {
	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DSN})
	if err != nil {
		return fmt.Errorf("open storage %q: %w", p.Storage.Kind, err)
	}
	defer repo.Close()

	loader := ingest.Loader{
		RawDir:    p.Source.RawDir,
		FirstYear: p.Source.FirstYear,
		LastYear:  p.Source.LastYear,
		Workers:   p.Source.Workers,
	}

	start := time.Now()
	res, err := loader.Load(ctx)
	metrics.RecordStep(p.Job, "load", err, time.Since(start))
	if err != nil {
		return err
	}

	prt := message.NewPrinter(language.English)
	log.Printf("loaded %s rows from %d year file(s), %s skipped",
		prt.Sprintf("%d", len(res.Batch)), len(res.YearsLoaded),
		prt.Sprintf("%d", res.RowsSkipped))
	if len(res.YearsMissing) > 0 {
		log.Printf("missing year file(s): %v", res.YearsMissing)
	}

	products, err := loader.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load product catalog: %w", err)
	}

	if p.Source.CleanDir != "" {
		start = time.Now()
		err = ingest.WriteArtifact(p.Source.CleanDir, ingest.TransactionsArtifact, res.Batch)
		if err == nil && products != nil {
			err = ingest.WriteArtifact(p.Source.CleanDir, ingest.ProductsArtifact, products)
		}
		metrics.RecordStep(p.Job, "artifact", err, time.Since(start))
		if err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
	}

	cleaner := clean.Cleaner{
		DeDup: clean.DeDup{Keys: clean.BusinessKey, KeepFirst: p.Cleaning.KeepFirst},
	}
	start = time.Now()
	cleaned, err := cleaner.Apply(res.Batch)
	metrics.RecordStep(p.Job, "clean", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	deduped := len(res.Batch) - len(cleaned)
	log.Printf("cleaned batch: %s rows kept, %s duplicate(s) collapsed",
		prt.Sprintf("%d", len(cleaned)), prt.Sprintf("%d", deduped))

	mat := schema.Materializer{Repo: repo}
	start = time.Now()
	stats, err := mat.Run(ctx, cleaned, products)
	metrics.RecordStep(p.Job, "materialize", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("materialize: %w", err)
	}

	metrics.RecordRows(p.Job, "loaded", int64(len(res.Batch)))
	metrics.RecordRows(p.Job, "skipped", int64(res.RowsSkipped))
	metrics.RecordRows(p.Job, "deduped", int64(deduped))
	metrics.RecordRows(p.Job, "inserted", stats.Transactions)
	tables := int64(3)
	if products != nil {
		tables++
	}
	metrics.RecordTables(p.Job, tables)

	log.Printf("warehouse rebuilt: transactions=%s customers=%s dates=%s products=%s",
		prt.Sprintf("%d", stats.Transactions),
		prt.Sprintf("%d", stats.Customers),
		prt.Sprintf("%d", stats.TimeRows),
		prt.Sprintf("%d", stats.Products))
	return nil
}
