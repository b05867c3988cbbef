package clean

import (
	"strconv"
	"strings"
)

// deliverySentinels maps known free-text delivery labels onto day counts
// before numeric coercion.
var deliverySentinels = map[string]int{
	"Same Day": 0,
	"1-2 days": 2,
}

// Valid domain for delivery day counts, inclusive.
const (
	minDeliveryDays = 0
	maxDeliveryDays = 15
)

// ParseDeliveryDays coerces one raw delivery-days cell to an int within
// [0,15]. Out-of-range values (negative or >15) are missing, not clamped.
func ParseDeliveryDays(v any) (int, bool) {
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		n = int(t)
	case string:
		s := strings.TrimSpace(t)
		if d, ok := deliverySentinels[s]; ok {
			n = d
			break
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = int(f)
	default:
		return 0, false
	}
	if n < minDeliveryDays || n > maxDeliveryDays {
		return 0, false
	}
	return n, true
}

// DeliveryDays normalizes a raw delivery-days column; sentinel labels are
// mapped first, then values outside the valid domain become nil.
func DeliveryDays(col []any) ([]any, error) {
	out := make([]any, len(col))
	for i, v := range col {
		if err := checkScalar("delivery_days", i, v); err != nil {
			return nil, err
		}
		if n, ok := ParseDeliveryDays(v); ok {
			out[i] = n
		}
	}
	return out, nil
}
