// Package clean contains the field normalizers and the record cleaner that
// turn a raw ingested batch into the analysis-ready transaction table.
//
// Each normalizer operates on one column family (dates, currency, ratings,
// booleans, delivery days, payment methods) and is a pure function over a
// column slice: the output is always positionally aligned with the input, and
// per-cell failures become nil ("missing") rather than errors. Only structural
// problems (a cell that is not a scalar at all, or an internal length
// mismatch) abort a batch, via ErrColumnShape.
package clean

import (
	"errors"
	"fmt"
	"time"
)

// ErrColumnShape signals a malformed column: wrong cardinality or a cell of a
// non-scalar type. This is a fatal precondition failure for the whole batch,
// never a per-row condition.
var ErrColumnShape = errors.New("malformed column shape")

// checkScalar rejects container values that indicate a corrupted batch rather
// than a dirty cell.
func checkScalar(col string, i int, v any) error {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, float32, float64, time.Time:
		return nil
	}
	return fmt.Errorf("%w: column %q row %d has non-scalar value %T", ErrColumnShape, col, i, v)
}
