package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		keep bool
	}{
		{
			name: "name only is dropped",
			rec:  Record{Name: "Delta"},
			keep: false,
		},
		{
			name: "name plus unit is kept",
			rec:  Record{Name: "Delta", Unit: UnitGram},
			keep: true,
		},
		{
			name: "name plus amount is kept",
			rec:  Record{Name: "Delta", Amount3: "2"},
			keep: true,
		},
		{
			name: "name plus note is kept",
			rec:  Record{Name: "Delta", Note: NoteTotal},
			keep: true,
		},
		{
			name: "empty name is dropped even with values",
			rec:  Record{Amount1: "5", Unit: UnitGram},
			keep: false,
		},
		{
			name: "condition alone is not meaningful",
			rec:  Record{Name: "Delta", Condition: "頭髪用"},
			keep: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter([]Record{tt.rec})
			if tt.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	recs := []Record{
		{Name: "A", Unit: UnitGram},
		{Name: "dropped"},
		{Name: "B", Amount1: "1"},
	}
	got := Filter(recs)
	assert.Equal(t, []string{"A", "B"}, []string{got[0].Name, got[1].Name})
}
