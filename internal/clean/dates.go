package clean

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order. Day-first forms come before month-first
// so that ambiguous strings like "03/04/2021" resolve as 3 April.
var dayFirstLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate parses a day-first date string. The second return is false when
// the value cannot be parsed.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Dates normalizes a raw order-date column. It returns three positionally
// aligned columns: the parsed dates, the derived years, and the derived
// months. Unparseable cells yield nil in all three.
func Dates(col []any) (dates, years, months []any, err error) {
	dates = make([]any, len(col))
	years = make([]any, len(col))
	months = make([]any, len(col))
	for i, v := range col {
		if e := checkScalar("order_date", i, v); e != nil {
			return nil, nil, nil, e
		}
		var t time.Time
		switch raw := v.(type) {
		case time.Time:
			t = raw
		case string:
			parsed, ok := ParseDate(raw)
			if !ok {
				continue
			}
			t = parsed
		default:
			continue
		}
		dates[i] = t
		years[i] = t.Year()
		months[i] = int(t.Month())
	}
	return dates, years, months, nil
}
