package clean

import (
	"fmt"

	"ecometl/pkg/records"
)

// Canonical transaction column names touched by the cleaner.
const (
	ColOrderDate     = "order_date"
	ColOrderYear     = "order_year"
	ColOrderMonth    = "order_month"
	ColFinalAmount   = "final_amount_inr"
	ColOriginalPrice = "original_price_inr"
	ColRating        = "customer_rating"
	ColPrimeMember   = "is_prime_member"
	ColFestivalSale  = "is_festival_sale"
	ColDeliveryDays  = "delivery_days"
	ColPayment       = "payment_method"
)

// Cleaner applies every field normalizer to its column family over a full
// batch, then collapses duplicate transactions by business key.
//
// Per-cell problems resolve to nil and never abort the batch; a malformed
// column (non-scalar cells) aborts with ErrColumnShape. The cleaner performs
// no I/O.
type Cleaner struct {
	DeDup DeDup
}

// Apply returns the cleaned batch. Output row count equals input row count
// minus exact business-key collisions.
func (c Cleaner) Apply(in []records.Record) ([]records.Record, error) {
	if len(in) == 0 {
		return in, nil
	}

	dates, years, months, err := Dates(column(in, ColOrderDate))
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", ColOrderDate, err)
	}
	setColumn(in, ColOrderDate, dates)
	// Keep the loader's provenance year for rows whose date did not parse;
	// the parsed date wins otherwise.
	for i, y := range years {
		if y != nil {
			in[i][ColOrderYear] = y
		}
		in[i][ColOrderMonth] = months[i]
	}

	for _, col := range []string{ColOriginalPrice, ColFinalAmount} {
		vals, err := Currency(column(in, col))
		if err != nil {
			return nil, fmt.Errorf("clean %s: %w", col, err)
		}
		setColumn(in, col, vals)
	}

	ratings, err := Rating(column(in, ColRating))
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", ColRating, err)
	}
	setColumn(in, ColRating, ratings)

	for _, col := range []string{ColPrimeMember, ColFestivalSale} {
		vals, err := Boolean(column(in, col))
		if err != nil {
			return nil, fmt.Errorf("clean %s: %w", col, err)
		}
		setColumn(in, col, vals)
	}

	days, err := DeliveryDays(column(in, ColDeliveryDays))
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", ColDeliveryDays, err)
	}
	setColumn(in, ColDeliveryDays, days)

	methods, err := Payment(column(in, ColPayment))
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", ColPayment, err)
	}
	setColumn(in, ColPayment, methods)

	return c.DeDup.Apply(in), nil
}

// column extracts one named column from a batch, positionally aligned.
// Absent cells read as nil.
func column(in []records.Record, name string) []any {
	out := make([]any, len(in))
	for i, r := range in {
		out[i] = r[name]
	}
	return out
}

// setColumn writes a normalized column back into the batch. The normalizers
// guarantee len(vals) == len(in).
func setColumn(in []records.Record, name string, vals []any) {
	for i := range in {
		in[i][name] = vals[i]
	}
}
