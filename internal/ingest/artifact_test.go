package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ecometl/pkg/records"
)

func artifactBatch() []records.Record {
	return []records.Record{
		{
			"transaction_id":   "T1",
			"customer_id":      "C1",
			"product_id":       "P1",
			"order_date":       time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC),
			"final_amount_inr": 1499.0,
			"customer_city":    "Mumbai",
			"customer_state":   "MH",
			"payment_method":   "UPI",
			"delivery_days":    0,
			"is_prime_member":  true,
			"order_year":       2019,
			"zz_extra":         "x",
			"aa_extra":         "y",
		},
	}
}

/*
TestWriteArtifact_Layout verifies the checkpoint CSV: required checklist
columns lead, order_year follows, extras trail sorted, and cell rendering
matches the persisted store forms.
*/
func TestWriteArtifact_Layout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := WriteArtifact(dir, TransactionsArtifact, artifactBatch()); err != nil {
		t.Fatalf("WriteArtifact error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, TransactionsArtifact))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}

	wantHeader := strings.Join(RequiredColumns, ",") + ",order_year,aa_extra,zz_extra"
	if lines[0] != wantHeader {
		t.Fatalf("header = %q\nwant     %q", lines[0], wantHeader)
	}
	wantRow := "T1,C1,P1,2019-08-15,1499,Mumbai,MH,UPI,0,true,2019,y,x"
	if lines[1] != wantRow {
		t.Fatalf("row = %q\nwant  %q", lines[1], wantRow)
	}
}

/*
TestWriteArtifact_Deterministic verifies a rerun over the same batch writes
byte-identical output.
*/
func TestWriteArtifact_Deterministic(t *testing.T) {
	t.Parallel()

	dirA, dirB := t.TempDir(), t.TempDir()
	batch := artifactBatch()
	if err := WriteArtifact(dirA, TransactionsArtifact, batch); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteArtifact(dirB, TransactionsArtifact, batch); err != nil {
		t.Fatalf("second write: %v", err)
	}

	a, err := os.ReadFile(filepath.Join(dirA, TransactionsArtifact))
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dirB, TransactionsArtifact))
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("artifact bytes differ between identical runs")
	}
}

/*
TestWriteArtifact_MissingCells verifies nil values render as empty cells.
*/
func TestWriteArtifact_MissingCells(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batch := []records.Record{{"transaction_id": "T1", "customer_id": nil}}
	if err := WriteArtifact(dir, ProductsArtifact, batch); err != nil {
		t.Fatalf("WriteArtifact error: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, ProductsArtifact))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "transaction_id,customer_id" || lines[1] != "T1," {
		t.Fatalf("artifact = %q", lines)
	}
}

/*
TestWriteArtifact_CreatesDir verifies the clean directory is created on
demand.
*/
func TestWriteArtifact_CreatesDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "clean")
	if err := WriteArtifact(dir, TransactionsArtifact, nil); err != nil {
		t.Fatalf("WriteArtifact error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, TransactionsArtifact)); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
}
