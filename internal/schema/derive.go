package schema

import (
	"fmt"
	"sort"
	"time"

	"ecometl/pkg/records"
)

// dateLayout is the persisted form of calendar dates in every backend.
const dateLayout = "2006-01-02"

// flatten maps canonical in-memory values onto the scalar forms the storage
// backends persist: dates become "YYYY-MM-DD" text, booleans 0/1, ints int64.
func flatten(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.Format(dateLayout)
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(t)
	default:
		return v
	}
}

// FactRows projects a cleaned batch onto the transactions table's column
// order, preserving batch order.
func FactRows(batch []records.Record) [][]any {
	cols := Transactions().ColumnNames()
	rows := make([][]any, len(batch))
	for i, rec := range batch {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = flatten(rec[c])
		}
		rows[i] = row
	}
	return rows
}

// CustomerRows derives the customer dimension from the fact batch: one row
// per distinct customer_id. When a customer appears with conflicting
// city/state/prime values, the row from their most recent order wins; rows
// without a parsed order date lose to any dated row, and remaining ties go to
// the later batch position. Output is sorted by customer_id so rebuilds are
// byte-for-byte reproducible.
func CustomerRows(batch []records.Record) [][]any {
	type pick struct {
		rec   records.Record
		date  time.Time
		dated bool
		pos   int
	}
	best := make(map[string]pick)

	// newer reports whether cand should replace cur.
	newer := func(cand, cur pick) bool {
		if cand.dated != cur.dated {
			return cand.dated
		}
		if cand.dated && !cand.date.Equal(cur.date) {
			return cand.date.After(cur.date)
		}
		return cand.pos > cur.pos
	}

	for i, rec := range batch {
		id := rec.String("customer_id")
		if id == "" {
			continue
		}
		d, dated := rec.Time("order_date")
		cand := pick{rec: rec, date: d, dated: dated, pos: i}
		if cur, seen := best[id]; !seen || newer(cand, cur) {
			best[id] = cand
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]any, 0, len(ids))
	for _, id := range ids {
		rec := best[id].rec
		rows = append(rows, []any{
			id,
			flatten(rec["customer_city"]),
			flatten(rec["customer_state"]),
			flatten(rec["is_prime_member"]),
		})
	}
	return rows
}

// TimeRows derives the calendar lookup from the distinct set of parsed order
// dates in the fact batch, sorted ascending.
func TimeRows(batch []records.Record) [][]any {
	seen := make(map[string]time.Time)
	for _, rec := range batch {
		if d, ok := rec.Time("order_date"); ok {
			seen[d.Format(dateLayout)] = d
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		d := seen[k]
		rows = append(rows, []any{
			k,
			int64(d.Year()),
			int64(d.Month()),
			QuarterLabel(d),
			int64(d.Day()),
		})
	}
	return rows
}

// QuarterLabel renders the calendar quarter of d as "2015Q1"-style text.
func QuarterLabel(d time.Time) string {
	return fmt.Sprintf("%dQ%d", d.Year(), (int(d.Month())-1)/3+1)
}

// ProductColumns derives the catalog table's column order from a loaded
// batch: product_id and category lead when present, remaining columns follow
// sorted by name.
func ProductColumns(batch []records.Record) []string {
	present := make(map[string]struct{})
	for _, rec := range batch {
		for k := range rec {
			present[k] = struct{}{}
		}
	}
	var lead, rest []string
	for _, k := range []string{"product_id", "category"} {
		if _, ok := present[k]; ok {
			lead = append(lead, k)
			delete(present, k)
		}
	}
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(lead, rest...)
}

// ProductRows projects the catalog batch onto the given column order,
// preserving file order.
func ProductRows(batch []records.Record, columns []string) [][]any {
	rows := make([][]any, len(batch))
	for i, rec := range batch {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = flatten(rec[c])
		}
		rows[i] = row
	}
	return rows
}
