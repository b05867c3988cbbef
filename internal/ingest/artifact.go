package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"ecometl/pkg/records"
)

// Artifact file names written under the clean directory.
const (
	TransactionsArtifact = "transactions_cleaned.csv"
	ProductsArtifact     = "products_cleaned.csv"
)

// WriteArtifact persists a batch as a CSV checkpoint under dir. The artifact
// is the auditable, human-inspectable form of the batch handed to
// materialization; a rerun over unchanged input produces identical bytes.
func WriteArtifact(dir, name string, batch []records.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create clean dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()

	cols := artifactColumns(batch)
	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("write artifact header: %w", err)
	}
	row := make([]string, len(cols))
	for _, rec := range batch {
		for i, c := range cols {
			row[i] = formatCell(rec[c])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write artifact row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	return f.Close()
}

// artifactColumns orders the batch's columns deterministically: the required
// checklist first, then order_year, then any extra columns sorted by name.
func artifactColumns(batch []records.Record) []string {
	present := make(map[string]struct{})
	for _, rec := range batch {
		for k := range rec {
			present[k] = struct{}{}
		}
	}
	var cols []string
	for _, c := range append(append([]string{}, RequiredColumns...), "order_year") {
		if _, ok := present[c]; ok {
			cols = append(cols, c)
			delete(present, c)
		}
	}
	var rest []string
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

// formatCell renders one cell for the CSV artifact. Missing values are empty
// cells; dates use the calendar form the store persists.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
