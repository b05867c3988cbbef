package schema

import (
	"context"
	"fmt"
	"log"

	"ecometl/internal/storage"
	"ecometl/pkg/records"
)

// Stats summarizes one materialization run.
type Stats struct {
	Transactions int64
	Customers    int64
	TimeRows     int64
	Products     int64
}

// Materializer derives the dimensions from a cleaned fact batch and persists
// the full star schema through a storage.Repository. Every table replacement
// has snapshot semantics; the repository guarantees readers never see a
// half-replaced table.
type Materializer struct {
	Repo storage.Repository
}

// Run persists transactions, customers, and the time dimension derived from
// the fact batch, plus the product catalog when one was loaded (products may
// be nil; category joins then simply return no rows). Supporting indexes on
// the fact table are rebuilt last.
func (m Materializer) Run(ctx context.Context, facts, products []records.Record) (Stats, error) {
	var st Stats

	txnTable := Transactions()
	n, err := m.Repo.Replace(ctx, txnTable, FactRows(facts))
	if err != nil {
		return st, fmt.Errorf("materialize %s: %w", txnTable.Name, err)
	}
	st.Transactions = n
	log.Printf("materialize: %s rows=%d", txnTable.Name, n)

	n, err = m.Repo.Replace(ctx, Customers(), CustomerRows(facts))
	if err != nil {
		return st, fmt.Errorf("materialize %s: %w", TableCustomers, err)
	}
	st.Customers = n
	log.Printf("materialize: %s rows=%d", TableCustomers, n)

	n, err = m.Repo.Replace(ctx, TimeDimension(), TimeRows(facts))
	if err != nil {
		return st, fmt.Errorf("materialize %s: %w", TableTime, err)
	}
	st.TimeRows = n
	log.Printf("materialize: %s rows=%d", TableTime, n)

	if products != nil {
		cols := ProductColumns(products)
		n, err = m.Repo.Replace(ctx, Products(cols), ProductRows(products, cols))
		if err != nil {
			return st, fmt.Errorf("materialize %s: %w", TableProducts, err)
		}
		st.Products = n
		log.Printf("materialize: %s rows=%d", TableProducts, n)
	}

	if err := m.Repo.EnsureIndexes(ctx, txnTable); err != nil {
		return st, fmt.Errorf("index %s: %w", txnTable.Name, err)
	}
	return st, nil
}
