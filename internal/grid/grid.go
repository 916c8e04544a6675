// Package grid holds the raw table model shared between the extraction
// sources and the normalization pipeline. A Table is an ordered grid of
// text cells tagged with where it came from; the pipeline stages never
// mutate a Table in place, they return new values.
package grid

// Row is one table row of cell text, indexed by column position.
type Row []string

// Table is a single extracted table. Page and Order reproduce the
// position of the table in the source document and are only used to sort
// tables before processing. SourceURL is copied verbatim onto every
// record synthesized from the table.
type Table struct {
	Page      int    `json:"page"`
	Order     int    `json:"order"`
	SourceURL string `json:"source_url"`
	Rows      []Row  `json:"rows"`
}

// Columns returns the column count of the widest row. Sources that
// produce ragged rows (HTML tables with merged cells) still get a stable
// table-wide column count this way.
func (t Table) Columns() int {
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Cell returns the cell at (row, col), or "" when either index is out of
// range.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Clone returns a deep copy of the table. Stages that rewrite cells copy
// first so the caller's value stays untouched.
func (t Table) Clone() Table {
	out := Table{
		Page:      t.Page,
		Order:     t.Order,
		SourceURL: t.SourceURL,
	}
	if t.Rows == nil {
		return out
	}
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = make(Row, len(row))
		copy(out.Rows[i], row)
	}
	return out
}
