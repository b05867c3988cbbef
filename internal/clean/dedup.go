// DeDup collapses records sharing the transaction business key. It runs
// in-memory on a single batch, after the field normalizers, so that key
// values have stable canonical types. The store's UNIQUE constraints remain
// the backstop.
package clean

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"ecometl/pkg/records"
)

// BusinessKey is the tuple that identifies one purchase event. Two rows equal
// on this key are the same transaction regardless of other columns.
var BusinessKey = []string{"customer_id", "product_id", "order_date", "final_amount_inr"}

// DeDup removes duplicate records by business key.
type DeDup struct {
	// Keys are the field names that form the business key. Empty means
	// BusinessKey.
	Keys []string

	// KeepFirst keeps the earliest occurrence instead of the default
	// keep-last. The batch arrives year-ascending then file-order, so
	// keep-last means the most recently loaded row wins, the deterministic
	// survivor policy.
	KeepFirst bool
}

// Apply returns a new slice containing one winning record per key, in stable
// ascending position of the winner. Records missing a key field entirely pass
// through unchanged.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 {
		return in
	}
	keys := d.Keys
	if len(keys) == 0 {
		keys = BusinessKey
	}

	type slot struct {
		rec   records.Record
		index int
	}
	winners := make(map[uint64]slot, len(in))

	keyOf := func(r records.Record) (uint64, bool) {
		var b strings.Builder
		for _, k := range keys {
			v, ok := r[k]
			if !ok {
				return 0, false
			}
			if b.Len() > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(keyString(v))
		}
		return xxh3.HashString(b.String()), true
	}

	for i, r := range in {
		key, ok := keyOf(r)
		if !ok {
			continue
		}
		if d.KeepFirst {
			if _, exists := winners[key]; !exists {
				winners[key] = slot{rec: r, index: i}
			}
			continue
		}
		winners[key] = slot{rec: r, index: i}
	}

	indexes := make([]int, 0, len(winners))
	byIndex := make(map[int]records.Record, len(winners))
	for _, s := range winners {
		indexes = append(indexes, s.index)
		byIndex[s.index] = s.rec
	}
	sort.Ints(indexes)

	out := make([]records.Record, 0, len(winners))
	for _, idx := range indexes {
		out = append(out, byIndex[idx])
	}
	for _, r := range in {
		if _, ok := keyOf(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

// keyString stabilizes a key field value as a string. nil maps to "\x00" so
// two rows with a missing amount still collide, matching snapshot semantics.
func keyString(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
