package parser

import (
	"io"

	"ecometl/pkg/records"
)

// Parser consumes one raw extract and returns the parsed records plus the
// number of rows skipped as unparseable.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
