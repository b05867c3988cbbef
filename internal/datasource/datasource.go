// Package datasource abstracts where raw extract bytes come from, so the
// loader can be tested against in-memory sources and extended to remote
// ones without touching ingestion logic.
package datasource

import (
	"context"
	"io"
)

type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
