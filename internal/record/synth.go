package record

import (
	"errors"
	"regexp"
	"strings"

	"github.com/quotatab/quotatab/internal/grid"
	"github.com/quotatab/quotatab/internal/normalize"
)

// ErrColumnShape is returned when a table's column count matches neither
// the narrow (single limit value) nor the wide (categorized limits)
// schema. The caller skips the table and moves on.
var ErrColumnShape = errors.New("table column count matches no known schema")

// wideColumnMin is the column count at which a table switches from the
// single-value schema to the categorized rinse-off/leave-on/mucosal
// schema.
const wideColumnMin = 4

var unitMarkers = regexp.MustCompile(`\s*[gｇ]\s*|\s*国際単位\s*`)

// stripUnits removes gram and international-unit markers from a value.
func stripUnits(s string) string {
	return strings.TrimSpace(unitMarkers.ReplaceAllString(s, ""))
}

// stripNoted removes the aggregate-total marker along with the unit
// markers, leaving only the bare value.
func stripNoted(s string) string {
	noTotal, _ := stripTotal(s)
	return stripUnits(noTotal)
}

// stripTotal removes the aggregate-total marker, reporting whether it
// was present.
func stripTotal(s string) (string, bool) {
	if strings.Contains(s, NoteTotal) {
		return strings.TrimSpace(strings.ReplaceAll(s, NoteTotal, "")), true
	}
	return s, false
}

func hasIntlUnit(values ...string) bool {
	for _, v := range values {
		if strings.Contains(v, UnitInternational) {
			return true
		}
	}
	return false
}

func hasOverLimit(s string) bool {
	for _, m := range overLimitMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Synthesize fans every row of a normalized table out into records, one
// per name-column token. When the name column holds one token more than
// the amount column, that extra leading token is the row's shared
// condition; the remaining tokens pair 1:1 by position with the amount
// tokens, padding with empty values where the amount column runs short.
//
// Tables with fewer than four columns carry a single limit per substance
// in column 1. Tables with four or more columns carry the categorized
// triple in columns 1-3, with an optional aggregate total hidden in one
// of them. Tables narrower than two columns fit neither schema.
func Synthesize(t grid.Table) ([]Record, error) {
	ncols := t.Columns()
	if ncols < 2 {
		return nil, ErrColumnShape
	}
	wide := ncols >= wideColumnMin

	var recs []Record
	for r := range t.Rows {
		c1 := normalize.SplitTokens(t.Cell(r, 0))
		c2 := normalize.SplitTokens(t.Cell(r, 1))
		c3 := normalize.SplitTokens(t.Cell(r, 2))
		c4 := normalize.SplitTokens(t.Cell(r, 3))

		condition := ""
		if len(c1) != len(c2) && len(c1) > 0 {
			condition = c1[0]
			c1 = c1[1:]
		}

		for i := range c1 {
			rec := Record{
				Name:      c1[i],
				Condition: condition,
				SourceURL: t.SourceURL,
			}
			if wide {
				synthesizeWide(&rec, at(c2, i), at(c3, i), at(c4, i))
			} else {
				synthesizeNarrow(&rec, at(c2, i))
			}
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func at(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

func synthesizeNarrow(rec *Record, raw string) {
	noTotal, hadTotal := stripTotal(raw)
	rec.Amount1 = stripUnits(noTotal)
	if hadTotal {
		rec.Note = NoteTotal
	}
	rec.Unit = UnitGram
	if hasIntlUnit(raw) {
		rec.Unit = UnitInternational
	}
	if hasOverLimit(rec.Amount1) {
		rec.Unit = ""
	}
}

func synthesizeWide(rec *Record, v2, v3, v4 string) {
	// The aggregate total may sit in any of the three category columns;
	// the first one found becomes amount1.
	totalRaw := ""
	for _, cand := range []string{v2, v3, v4} {
		if strings.Contains(cand, NoteTotal) {
			totalRaw = cand
			rec.Note = NoteTotal
			break
		}
	}
	if totalRaw != "" {
		rec.Amount1 = stripNoted(totalRaw)
	}
	rec.Amount2 = stripNoted(v2)
	rec.Amount3 = stripNoted(v3)
	rec.Amount4 = stripNoted(v4)

	rec.Unit = UnitGram
	if hasIntlUnit(totalRaw, v2, v3, v4) {
		rec.Unit = UnitInternational
	}
	if hasOverLimit(rec.Amount1) {
		rec.Unit = ""
	}
}
