package clean

// ParseBool maps the fixed flag vocabulary onto a tri-state boolean. "Yes",
// "Y", 1 and true map to true; "No", "N", 0 and false map to false. Any other
// value is unknown and the third return is false. An unmapped value must not
// silently become false.
func ParseBool(v any) (val, known bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case int64:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case float64:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case string:
		switch t {
		case "Yes", "Y":
			return true, true
		case "No", "N":
			return false, true
		}
	}
	return false, false
}

// Boolean normalizes a raw flag column to tri-state booleans: true, false, or
// nil for unmapped values.
func Boolean(col []any) ([]any, error) {
	out := make([]any, len(col))
	for i, v := range col {
		if err := checkScalar("boolean", i, v); err != nil {
			return nil, err
		}
		if b, known := ParseBool(v); known {
			out[i] = b
		}
	}
	return out, nil
}
