package normalize

import (
	"regexp"
	"strings"

	"github.com/quotatab/quotatab/internal/grid"
)

// digitRowMinRatio is the fraction of non-empty cells that must be pure
// integers for a row to count as pagination/footer noise.
const digitRowMinRatio = 0.8

// nameHeaderLabel is the column-0 label of the repeated per-page header
// in the PDF source.
const nameHeaderLabel = "成分名"

// htmlHeaderRow is the fixed header row emitted by the HTML source's
// category tables.
var htmlHeaderRow = [3]string{
	"粘膜に使用されることがない化粧品のうち洗い流すもの",
	"粘膜に使用されることがない化粧品のうち洗い流さないもの",
	"粘膜に使用されることがある化粧品",
}

var (
	intOnly = regexp.MustCompile(`^\d+$`)
	allWS   = regexp.MustCompile(`\s+`)
)

func squashWhitespace(s string) string {
	return strings.TrimSpace(allWS.ReplaceAllString(strings.ReplaceAll(s, "　", " "), ""))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(allWS.ReplaceAllString(strings.ReplaceAll(s, "　", " "), " "))
}

// IsNoiseRow reports whether a row carries no ingredient data: page
// number rows, the repeated 成分名 header, or the HTML category header
// template.
func IsNoiseRow(row grid.Row) bool {
	var nonempty []string
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" && strings.ToLower(c) != "nan" {
			nonempty = append(nonempty, c)
		}
	}
	if len(nonempty) > 0 {
		digits := 0
		for _, c := range nonempty {
			if intOnly.MatchString(c) {
				digits++
			}
		}
		if float64(digits)/float64(len(nonempty)) >= digitRowMinRatio {
			return true
		}
	}

	if len(row) > 0 && squashWhitespace(row[0]) == nameHeaderLabel {
		return true
	}

	if len(row) == len(htmlHeaderRow) {
		match := true
		for i, want := range htmlHeaderRow {
			if collapseWhitespace(row[i]) != collapseWhitespace(want) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

// DropNoiseRows removes noise rows, preserving the order of the rest.
func DropNoiseRows(t grid.Table) grid.Table {
	out := t.Clone()
	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if !IsNoiseRow(row) {
			kept = append(kept, row)
		}
	}
	out.Rows = kept
	return out
}
