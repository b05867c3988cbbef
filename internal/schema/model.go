// Package schema defines the materialized star schema (the transactions
// fact table and its derived dimensions) and turns cleaned record batches
// into persisted snapshots.
package schema

import "ecometl/internal/storage"

// Persisted table names consumed by the reporting layer.
const (
	TableTransactions = "transactions"
	TableCustomers    = "customers"
	TableTime         = "time_dimension"
	TableProducts     = "products"
)

// Transactions returns the fact table definition: one row per purchase
// event, with supporting lookups on order date, customer, and product.
func Transactions() storage.Table {
	return storage.Table{
		Name: TableTransactions,
		Columns: []storage.Column{
			{Name: "transaction_id", Kind: "text"},
			{Name: "customer_id", Kind: "text"},
			{Name: "product_id", Kind: "text"},
			{Name: "order_date", Kind: "date"},
			{Name: "order_year", Kind: "integer"},
			{Name: "order_month", Kind: "integer"},
			{Name: "original_price_inr", Kind: "real"},
			{Name: "final_amount_inr", Kind: "real"},
			{Name: "customer_rating", Kind: "real"},
			{Name: "is_prime_member", Kind: "bool"},
			{Name: "is_festival_sale", Kind: "bool"},
			{Name: "delivery_days", Kind: "integer"},
			{Name: "payment_method", Kind: "text"},
			{Name: "customer_city", Kind: "text"},
			{Name: "customer_state", Kind: "text"},
		},
		Indexes: []storage.Index{
			{Name: "idx_txn_date", Column: "order_date"},
			{Name: "idx_txn_customer", Column: "customer_id"},
			{Name: "idx_txn_product", Column: "product_id"},
		},
	}
}

// Customers returns the customer dimension definition, keyed by customer_id.
func Customers() storage.Table {
	return storage.Table{
		Name: TableCustomers,
		Columns: []storage.Column{
			{Name: "customer_id", Kind: "text"},
			{Name: "customer_city", Kind: "text"},
			{Name: "customer_state", Kind: "text"},
			{Name: "is_prime_member", Kind: "bool"},
		},
	}
}

// TimeDimension returns the calendar lookup definition, keyed by date.
func TimeDimension() storage.Table {
	return storage.Table{
		Name: TableTime,
		Columns: []storage.Column{
			{Name: "date", Kind: "date"},
			{Name: "year", Kind: "integer"},
			{Name: "month", Kind: "integer"},
			{Name: "quarter", Kind: "text"},
			{Name: "day", Kind: "integer"},
		},
	}
}

// Products returns the optional catalog table definition. Catalog columns
// pass through unmodified, so the definition is derived from the loaded
// batch's column set rather than fixed here.
func Products(columns []string) storage.Table {
	cols := make([]storage.Column, len(columns))
	for i, c := range columns {
		cols[i] = storage.Column{Name: c, Kind: "text"}
	}
	return storage.Table{Name: TableProducts, Columns: cols}
}
