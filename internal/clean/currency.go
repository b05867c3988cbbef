package clean

import (
	"math"
	"strconv"
	"strings"
)

// currencySentinels are raw values that mean "no price available".
var currencySentinels = map[string]struct{}{
	"Price on Request": {},
	"nan":              {},
}

// ParseCurrency coerces one raw price cell to a float64 amount. It strips the
// rupee symbol and thousands separators and maps sentinel strings to missing.
// The second return is false when no numeric value can be recovered.
func ParseCurrency(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if _, bad := currencySentinels[s]; bad || s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, "₹", "")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		// ParseFloat accepts "NaN" and "Inf" spellings; neither is an amount.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Currency normalizes a raw price column to float64 amounts, nil for
// unrecoverable cells. One bad cell never rejects the batch.
func Currency(col []any) ([]any, error) {
	out := make([]any, len(col))
	for i, v := range col {
		if err := checkScalar("currency", i, v); err != nil {
			return nil, err
		}
		if f, ok := ParseCurrency(v); ok {
			out[i] = f
		}
	}
	return out, nil
}
