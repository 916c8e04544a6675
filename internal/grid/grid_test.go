package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns(t *testing.T) {
	assert.Equal(t, 0, Table{}.Columns())

	ragged := Table{Rows: []Row{
		{"a"},
		{"b", "c", "d"},
		{"e", "f"},
	}}
	assert.Equal(t, 3, ragged.Columns())
}

func TestCell(t *testing.T) {
	tbl := Table{Rows: []Row{{"a", "b"}, {"c"}}}

	assert.Equal(t, "b", tbl.Cell(0, 1))
	assert.Equal(t, "c", tbl.Cell(1, 0))
	assert.Equal(t, "", tbl.Cell(1, 1))
	assert.Equal(t, "", tbl.Cell(5, 0))
	assert.Equal(t, "", tbl.Cell(-1, -1))
}

func TestCloneIsDeep(t *testing.T) {
	orig := Table{
		Page:      3,
		Order:     1,
		SourceURL: "https://example.org",
		Rows:      []Row{{"a", "b"}},
	}
	cp := orig.Clone()
	cp.Rows[0][0] = "changed"

	assert.Equal(t, "a", orig.Rows[0][0])
	assert.Equal(t, orig.Page, cp.Page)
	assert.Equal(t, orig.SourceURL, cp.SourceURL)
}
