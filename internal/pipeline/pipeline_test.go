package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotatab/quotatab/internal/grid"
	"github.com/quotatab/quotatab/internal/record"
)

func TestProcessSingleTable(t *testing.T) {
	table := grid.Table{
		Page:      2,
		SourceURL: "https://example.org/doc.pdf",
		Rows: []grid.Row{
			{"成分名", "最大配合量"},
			{"サリチル酸", "0.2ｇ"},
		},
	}

	recs, err := Process([]grid.Table{table})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, record.Record{
		Name:      "サリチル酸",
		Amount1:   "0.2",
		Unit:      record.UnitGram,
		SourceURL: "https://example.org/doc.pdf",
	}, recs[0])
}

func TestProcessHeaderTemplateRowContributesNothing(t *testing.T) {
	table := grid.Table{
		SourceURL: "https://example.org/t_doc",
		Rows: []grid.Row{
			{
				"粘膜に使用されることがない化粧品のうち洗い流すもの",
				"粘膜に使用されることがない化粧品のうち洗い流さないもの",
				"粘膜に使用されることがある化粧品",
			},
			{"Alpha", "5g"},
		},
	}

	recs, err := Process([]grid.Table{table})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Alpha", recs[0].Name)
}

func TestProcessRunsAllStages(t *testing.T) {
	// The amount token stranded in the name column must be moved over
	// before fan-out pairs names with amounts.
	table := grid.Table{
		SourceURL: "https://example.org/doc.pdf",
		Rows: []grid.Row{
			{"ホウ酸 5ｇ ホウ砂", "0.76ｇ"},
		},
	}

	recs, err := Process([]grid.Table{table})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ホウ酸", recs[0].Name)
	assert.Equal(t, "5", recs[0].Amount1)
	assert.Equal(t, "ホウ砂", recs[1].Name)
	assert.Equal(t, "0.76", recs[1].Amount1)
}

func TestProcessSkipsUnknownShapeTable(t *testing.T) {
	tables := []grid.Table{
		{Rows: []grid.Row{{"single column"}}},
		{Rows: []grid.Row{{"Alpha", "1ｇ"}}},
	}

	recs, err := Process(tables)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Alpha", recs[0].Name)
}

func TestProcessPreservesTableOrder(t *testing.T) {
	tables := []grid.Table{
		{Rows: []grid.Row{{"First", "1ｇ"}}},
		{Rows: []grid.Row{{"Second", "2ｇ"}}},
	}

	recs, err := Process(tables)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", recs[0].Name)
	assert.Equal(t, "Second", recs[1].Name)
}

func TestProcessNoRecords(t *testing.T) {
	_, err := Process(nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	// tables that only contain noise also end in ErrNoRecords
	_, err = Process([]grid.Table{
		{Rows: []grid.Row{{"12", "34"}}},
	})
	assert.ErrorIs(t, err, ErrNoRecords)
}
