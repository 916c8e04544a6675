package normalize

import (
	"regexp"
	"strings"

	"github.com/quotatab/quotatab/internal/grid"
)

// amountToken matches quantity tokens that belong in the amount column:
// a number immediately followed by a gram or international-unit marker.
var amountToken = regexp.MustCompile(`^\d+(?:\.\d+)?(?:[gｇ]|国際単位)$`)

// SplitTokens splits a cell into its whitespace-delimited tokens.
func SplitTokens(s string) []string {
	return strings.Fields(s)
}

// JoinTokens is the inverse of SplitTokens for non-empty tokens.
func JoinTokens(tokens []string) string {
	kept := tokens[:0:0]
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// RedistributeAmounts moves amount-shaped tokens that the extractor left
// in the name column (column 0) over to the amount column (column 1).
// Row items align by position, so a quantity found at name-column index
// i belongs at amount-column index i-1. Matches are processed from the
// highest index down to keep earlier indices stable; a match at index 0
// has no valid target and stays put. Tables narrower than two columns
// pass through unchanged.
func RedistributeAmounts(t grid.Table) grid.Table {
	if t.Columns() < 2 {
		return t
	}
	out := t.Clone()
	for r, row := range out.Rows {
		if len(row) < 2 {
			continue
		}
		c1 := SplitTokens(row[0])
		c2 := SplitTokens(row[1])

		var hits []int
		for i, tok := range c1 {
			if amountToken.MatchString(tok) {
				hits = append(hits, i)
			}
		}
		for k := len(hits) - 1; k >= 0; k-- {
			i := hits[k]
			target := i - 1
			if target < 0 {
				continue
			}
			moved := c1[i]
			c1 = append(c1[:i], c1[i+1:]...)
			if target > len(c2) {
				pad := make([]string, target-len(c2))
				c2 = append(c2, pad...)
			}
			c2 = append(c2, "")
			copy(c2[target+1:], c2[target:])
			c2[target] = moved
		}

		out.Rows[r][0] = JoinTokens(c1)
		out.Rows[r][1] = JoinTokens(c2)
	}
	return out
}

// SquashLeft collapses an over-split name column. When column 0 breaks
// into three or more tokens while column 1 holds exactly one, the name
// was a single long entry wrapped across visual fragments; the tokens
// are rejoined with no separator.
func SquashLeft(t grid.Table) grid.Table {
	if t.Columns() < 2 {
		return t
	}
	out := t.Clone()
	for r, row := range out.Rows {
		if len(row) < 2 {
			continue
		}
		c1 := SplitTokens(row[0])
		c2 := SplitTokens(row[1])
		if len(c1) >= 3 && len(c2) == 1 {
			out.Rows[r][0] = strings.Join(c1, "")
		}
	}
	return out
}
