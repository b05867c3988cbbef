// Package records defines the in-memory row representation shared by the
// parser, cleaning, and storage layers.
//
// A Record is a loosely typed map from canonical column name to value. Missing
// or unparseable cells are represented as nil so that downstream stages can
// distinguish "unknown" from zero values (a tri-state boolean, for example, is
// nil / true / false).
package records

import "time"

// Record is one row of a batch, keyed by canonical column name.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsMissing reports whether the named column is absent, nil, or an empty
// string.
func (r Record) IsMissing(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

// String returns the value for key as a string, or "" when missing or not a
// string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Float returns the value for key as a float64 and whether it was present as
// a numeric type.
func (r Record) Float(key string) (float64, bool) {
	switch t := r[key].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// Int returns the value for key as an int and whether it was present as an
// integral type.
func (r Record) Int(key string) (int, bool) {
	switch t := r[key].(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	}
	return 0, false
}

// Time returns the value for key as a time.Time and whether it was present as
// a time value.
func (r Record) Time(key string) (time.Time, bool) {
	t, ok := r[key].(time.Time)
	return t, ok
}
