// Package normalize implements the deterministic cleanup stages applied
// to extracted tables before record synthesis: per-cell text fix-ups,
// noise-row removal, and token redistribution between the name and
// amount columns. Every function is pure; tables go in, new tables come
// out.
package normalize

import (
	"regexp"
	"strings"

	"github.com/quotatab/quotatab/internal/grid"
)

var (
	fullWidthParen = regexp.MustCompile(`（([^）]*)）`)
	parenInnerWS   = regexp.MustCompile("[ \t　]+")
	afterTotal     = regexp.MustCompile(`(合計量として)\s+`)
	beforeIntlUnit = regexp.MustCompile(`\s+(国際単位)`)
	// The source extractor occasionally merges two adjacent entries by
	// dropping the comma in front of this substance-name fragment.
	splitEthyl = regexp.MustCompile(`(^|[^,])\s(2－エチル)`)
	spaceRun   = regexp.MustCompile(`[ \t]+`)
)

// Cell normalizes a single cell string. The fix-ups run in a fixed
// order; the function is idempotent, so sources may pre-normalize cells
// without affecting the pipeline's own pass.
func Cell(s string) string {
	y := strings.ReplaceAll(s, "　", " ")

	// Full-width parenthesis pairs lose all interior whitespace:
	// "（８ ～ 10 E.O. ）" reads as one fragment, not four.
	y = fullWidthParen.ReplaceAllStringFunc(y, func(m string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(m, "（"), "）")
		return "（" + parenInnerWS.ReplaceAllString(inner, "") + "）"
	})

	// The aggregate-total marker binds to the value following it, the
	// international-unit marker to the value preceding it.
	y = afterTotal.ReplaceAllString(y, "$1")
	y = beforeIntlUnit.ReplaceAllString(y, "$1")

	y = splitEthyl.ReplaceAllString(y, "${1},${2}")

	y = spaceRun.ReplaceAllString(y, " ")
	return strings.TrimSpace(y)
}

// Table applies Cell to every cell of the table.
func Table(t grid.Table) grid.Table {
	out := t.Clone()
	for i, row := range out.Rows {
		for j, cell := range row {
			out.Rows[i][j] = Cell(cell)
		}
	}
	return out
}
