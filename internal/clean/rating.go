package clean

import (
	"regexp"
	"strconv"
	"strings"
)

var ratingNumber = regexp.MustCompile(`\d+\.?\d*`)

// ParseRating coerces one raw rating cell to a float64. Ratings arrive either
// as an "x/y" fraction (only the numerator is kept) or as free text containing
// a decimal number (first numeric substring wins).
func ParseRating(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if idx := strings.Index(s, "/"); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
		}
		if m := ratingNumber.FindString(s); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return f, true
			}
		}
		return 0, false
	}
	return 0, false
}

// Rating normalizes a raw customer-rating column; unparseable cells become nil.
func Rating(col []any) ([]any, error) {
	out := make([]any, len(col))
	for i, v := range col {
		if err := checkScalar("customer_rating", i, v); err != nil {
			return nil, err
		}
		if f, ok := ParseRating(v); ok {
			out[i] = f
		}
	}
	return out, nil
}
