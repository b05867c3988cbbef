package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const extractHeader = "Transaction ID,Customer ID,Product ID,Order Date,Final Amount INR,Customer City,Customer State,Payment Method,Delivery Days,Is Prime Member\n"

func writeExtract(t *testing.T, dir string, year int, rows ...string) {
	t.Helper()
	body := extractHeader
	for _, r := range rows {
		body += r + "\n"
	}
	name := fmt.Sprintf("amazon_india_%d.csv", year)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

/*
TestLoad_MergesYearsInOrder verifies files parse concurrently but the merged
batch comes out year-ascending with provenance stamping.
*/
func TestLoad_MergesYearsInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExtract(t, dir, 2016, "T3,C3,P3,05/05/2016,300,Delhi,DL,UPI,3,Yes")
	writeExtract(t, dir, 2015,
		"T1,C1,P1,01/02/2015,100,Mumbai,MH,COD,2,Yes",
		"T2,C2,P2,03/02/2015,200,Pune,MH,UPI,1,No")

	res, err := Loader{RawDir: dir, FirstYear: 2015, LastYear: 2016, Workers: 2}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !reflect.DeepEqual(res.YearsLoaded, []int{2015, 2016}) {
		t.Fatalf("YearsLoaded = %v, want [2015 2016]", res.YearsLoaded)
	}
	if len(res.Batch) != 3 {
		t.Fatalf("got %d rows, want 3", len(res.Batch))
	}

	ids := make([]string, len(res.Batch))
	years := make([]any, len(res.Batch))
	for i, rec := range res.Batch {
		ids[i] = rec.String("transaction_id")
		years[i] = rec["order_year"]
	}
	if !reflect.DeepEqual(ids, []string{"T1", "T2", "T3"}) {
		t.Fatalf("merge order = %v, want year-ascending then file order", ids)
	}
	if !reflect.DeepEqual(years, []any{2015, 2015, 2016}) {
		t.Fatalf("provenance years = %v", years)
	}
}

/*
TestLoad_MissingYearsAreWarnings verifies absent year files are reported but
never abort the run.
*/
func TestLoad_MissingYearsAreWarnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExtract(t, dir, 2015, "T1,C1,P1,01/02/2015,100,Mumbai,MH,COD,2,Yes")
	writeExtract(t, dir, 2017, "T2,C2,P2,01/02/2017,200,Pune,MH,UPI,1,No")

	res, err := Loader{RawDir: dir, FirstYear: 2015, LastYear: 2018}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(res.YearsLoaded, []int{2015, 2017}) {
		t.Fatalf("YearsLoaded = %v", res.YearsLoaded)
	}
	if !reflect.DeepEqual(res.YearsMissing, []int{2016, 2018}) {
		t.Fatalf("YearsMissing = %v, want [2016 2018]", res.YearsMissing)
	}
}

/*
TestLoad_NoFilesAborts verifies an empty raw directory yields
ErrNoSourceFiles so a stale snapshot is never clobbered by a void run.
*/
func TestLoad_NoFilesAborts(t *testing.T) {
	t.Parallel()

	_, err := Loader{RawDir: t.TempDir()}.Load(context.Background())
	if !errors.Is(err, ErrNoSourceFiles) {
		t.Fatalf("error = %v, want ErrNoSourceFiles", err)
	}
}

/*
TestLoad_InvertedRange verifies the guard on a reversed year window.
*/
func TestLoad_InvertedRange(t *testing.T) {
	t.Parallel()

	_, err := Loader{RawDir: t.TempDir(), FirstYear: 2020, LastYear: 2015}.Load(context.Background())
	if err == nil || errors.Is(err, ErrNoSourceFiles) {
		t.Fatalf("error = %v, want inverted-range error", err)
	}
}

/*
TestLoad_BaselineCoercion verifies the loader's raw-but-typed checkpoint:
dates parsed day-first, currency numeric, delivery days bounded, prime flag
mapped case-insensitively.
*/
func TestLoad_BaselineCoercion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExtract(t, dir, 2019, `T1,C1,P1,15/08/2019,"₹1,499",Mumbai,MH,COD,Same Day,yes`)

	res, err := Loader{RawDir: dir, FirstYear: 2019, LastYear: 2019}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	rec := res.Batch[0]

	d, ok := rec.Time("order_date")
	if !ok || !d.Equal(time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("order_date = %#v, want parsed 15 August 2019", rec["order_date"])
	}
	if rec["final_amount_inr"] != 1499.0 {
		t.Fatalf("final_amount_inr = %#v, want 1499", rec["final_amount_inr"])
	}
	if rec["delivery_days"] != 0 {
		t.Fatalf("delivery_days = %#v, want 0 for Same Day", rec["delivery_days"])
	}
	if rec["is_prime_member"] != true {
		t.Fatalf("is_prime_member = %#v, want baseline truthy mapping", rec["is_prime_member"])
	}
}

/*
TestLoad_SynthesizesRequiredColumns verifies a file missing checklist columns
still yields records carrying every required key, as missing.
*/
func TestLoad_SynthesizesRequiredColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := "Transaction ID,Final Amount INR\nT1,100\n"
	if err := os.WriteFile(filepath.Join(dir, "amazon_india_2020.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	res, err := Loader{RawDir: dir, FirstYear: 2020, LastYear: 2020}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	rec := res.Batch[0]
	for _, col := range RequiredColumns {
		if _, ok := rec[col]; !ok {
			t.Fatalf("required column %q absent after synthesis", col)
		}
	}
	if rec["customer_id"] != nil {
		t.Fatalf("synthesized column = %#v, want nil", rec["customer_id"])
	}
}

/*
TestLoad_CountsSkippedRows verifies bad-width rows are dropped and counted.
*/
func TestLoad_CountsSkippedRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExtract(t, dir, 2021,
		"T1,C1,P1,01/02/2021,100,Mumbai,MH,COD,2,Yes",
		"short,row")

	res, err := Loader{RawDir: dir, FirstYear: 2021, LastYear: 2021}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(res.Batch) != 1 || res.RowsSkipped != 1 {
		t.Fatalf("rows/skipped = %d/%d, want 1/1", len(res.Batch), res.RowsSkipped)
	}
}

/*
TestLoadCatalog_MissingIsNil verifies an absent catalog degrades to a nil
batch without error.
*/
func TestLoadCatalog_MissingIsNil(t *testing.T) {
	t.Parallel()

	recs, err := Loader{RawDir: t.TempDir()}.LoadCatalog(context.Background())
	if err != nil || recs != nil {
		t.Fatalf("LoadCatalog = (%v, %v), want (nil, nil)", recs, err)
	}
}

/*
TestLoadCatalog_Present verifies catalog rows load with normalized headers.
*/
func TestLoadCatalog_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := "Product ID,Category\nP1,Books\nP2,Electronics\n"
	if err := os.WriteFile(filepath.Join(dir, CatalogFileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	recs, err := Loader{RawDir: dir}.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog error: %v", err)
	}
	if len(recs) != 2 || recs[0]["product_id"] != "P1" || recs[0]["category"] != "Books" {
		t.Fatalf("catalog = %#v", recs)
	}
}
