// Package source defines the extraction boundary: anything that can
// turn a document into an ordered sequence of raw tables.
package source

import (
	"context"
	"errors"

	"github.com/quotatab/quotatab/internal/grid"
)

// ErrNoTables is returned when a document yielded no usable tables. The
// run cannot continue without input, so callers treat it as fatal.
var ErrNoTables = errors.New("no tables detected in document")

// Source extracts raw tables from one document. Tables come back ordered
// by (page, order) with SourceURL set; cell text is raw extractor output,
// normalization happens downstream.
type Source interface {
	Extract(ctx context.Context) ([]grid.Table, error)
}
