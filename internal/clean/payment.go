package clean

import "strings"

// paymentSynonyms collapses the many raw spellings of a payment method onto
// the canonical category set. Keys are upper-cased raw values.
var paymentSynonyms = map[string]string{
	"UPI":         "UPI",
	"PHONEPE":     "UPI",
	"GOOGLEPAY":   "UPI",
	"COD":         "Cash on Delivery",
	"C.O.D":       "Cash on Delivery",
	"CC":          "Credit Card",
	"CREDIT_CARD": "Credit Card",
}

// ParsePayment normalizes one raw payment-method cell: upper-case, then apply
// the synonym table. Values with no table entry pass through upper-cased.
func ParsePayment(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if canonical, ok := paymentSynonyms[up]; ok {
		return canonical
	}
	return up
}

// Payment normalizes a raw payment-method column. Non-string cells (already
// nil, or numeric junk) pass through untouched.
func Payment(col []any) ([]any, error) {
	out := make([]any, len(col))
	for i, v := range col {
		if err := checkScalar("payment_method", i, v); err != nil {
			return nil, err
		}
		if s, ok := v.(string); ok {
			out[i] = ParsePayment(s)
		} else {
			out[i] = v
		}
	}
	return out, nil
}
