// Package record turns normalized tables into output records and filters
// out the ones that carry no regulatory datum. This is where the
// column-count schema branch and the per-row fan-out live.
package record

// Marker strings recognized in amount cells. The markers are matched on
// the raw cell text and stripped from the stored amounts.
const (
	UnitGram          = "g"
	UnitInternational = "国際単位"
	NoteTotal         = "合計量として"
)

// Over-limit markers: the substance has no numeric limit, only a
// qualitative restriction. Both spellings occur in the source documents.
var overLimitMarkers = []string{"配合負荷", "配合不可"}

// Record is one synthesized output row. Amount1 holds the general limit
// (or the aggregate total in the wide schema); Amount2..Amount4 hold the
// rinse-off / leave-on / mucosal limits of the wide schema.
type Record struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Amount1   string `json:"amount1"`
	Amount2   string `json:"amount2"`
	Amount3   string `json:"amount3"`
	Amount4   string `json:"amount4"`
	Unit      string `json:"unit"`
	Note      string `json:"note"`
	SourceURL string `json:"url"`
}

// Meaningful reports whether the record carries anything beyond a name.
func (r Record) Meaningful() bool {
	for _, v := range []string{r.Amount1, r.Amount2, r.Amount3, r.Amount4, r.Unit, r.Note} {
		if v != "" {
			return true
		}
	}
	return false
}

// Filter keeps only records that name a substance and carry at least one
// meaningful value. Rows that merely repeat a substance name with no
// extractable limit are a common artifact of merged table cells.
func Filter(recs []Record) []Record {
	var kept []Record
	for _, r := range recs {
		if r.Name != "" && r.Meaningful() {
			kept = append(kept, r)
		}
	}
	return kept
}
