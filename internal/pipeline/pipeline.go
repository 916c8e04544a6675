// Package pipeline composes the normalization stages over every
// extracted table and produces the final ordered record sequence.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/quotatab/quotatab/internal/grid"
	"github.com/quotatab/quotatab/internal/normalize"
	"github.com/quotatab/quotatab/internal/record"
)

// ErrNoRecords is returned when the whole run produced nothing. An
// empty result means the extraction or the tuning parameters are wrong
// and must not look like a successful run.
var ErrNoRecords = errors.New("no records produced from any table")

// Process runs each table through cell normalization, noise-row removal,
// token redistribution, left-column squashing, record synthesis, and the
// record filter, in extraction order. Tables are independent; a table
// whose shape fits no schema contributes nothing and processing
// continues.
func Process(tables []grid.Table) ([]record.Record, error) {
	var out []record.Record
	for _, t := range tables {
		n := normalize.Table(t)
		n = normalize.DropNoiseRows(n)
		n = normalize.RedistributeAmounts(n)
		n = normalize.SquashLeft(n)

		recs, err := record.Synthesize(n)
		if err != nil {
			slog.Warn("skipping table",
				"page", t.Page, "order", t.Order, "columns", t.Columns(), "err", err)
			continue
		}
		kept := record.Filter(recs)
		slog.Debug("table processed",
			"page", t.Page, "order", t.Order,
			"rows", len(n.Rows), "records", len(kept), "dropped", len(recs)-len(kept))
		out = append(out, kept...)
	}
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}
