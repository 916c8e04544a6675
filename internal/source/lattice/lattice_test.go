package lattice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotatab/quotatab/internal/grid"
)

type fixedPageCount int

func (fixedPageCount) Name() string                    { return "fixed" }
func (f fixedPageCount) PageCount([]byte) (int, error) { return int(f), nil }
func (fixedPageCount) Validate([]byte) error           { return nil }

func serveExtraction(t *testing.T, tables []serviceTable, wantPages string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	})
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		if wantPages != "" {
			assert.Equal(t, wantPages, r.URL.Query().Get("pages"))
		}
		assert.Equal(t, "lattice", r.URL.Query().Get("flavor"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(serviceResponse{Tables: tables})
	})
	return httptest.NewServer(mux)
}

func TestExtract(t *testing.T) {
	detected := []serviceTable{
		{Page: 3, Order: 0, Rows: []grid.Row{
			{"成分名", "最大配合量"},
			{"ホウ酸　塩", " 5ｇ "},
		}},
		{Page: 2, Order: 1, Rows: []grid.Row{
			{"A", "1ｇ"},
			{"B", "2ｇ"},
		}},
		// degenerate: one row only
		{Page: 4, Order: 0, Rows: []grid.Row{{"X", "Y"}}},
		// degenerate: one column only
		{Page: 4, Order: 1, Rows: []grid.Row{{"X"}, {"Y"}}},
		// excluded page
		{Page: 1, Order: 0, Rows: []grid.Row{{"C", "3ｇ"}, {"D", "4ｇ"}}},
	}
	srv := serveExtraction(t, detected, "all")
	defer srv.Close()

	client := New(Options{
		DocumentURL:  srv.URL + "/doc.pdf",
		ServiceURL:   srv.URL + "/extract",
		Pages:        "all",
		ExcludePages: map[int]bool{1: true},
	})

	tables, err := client.Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)

	// sorted by (page, order), provenance stamped, cells normalized
	assert.Equal(t, 2, tables[0].Page)
	assert.Equal(t, 3, tables[1].Page)
	assert.Equal(t, srv.URL+"/doc.pdf", tables[0].SourceURL)
	assert.Equal(t, grid.Row{"ホウ酸 塩", "5ｇ"}, tables[1].Rows[1])
}

func TestExtractAutoPageRange(t *testing.T) {
	detected := []serviceTable{
		{Page: 2, Order: 0, Rows: []grid.Row{{"A", "1ｇ"}, {"B", "2ｇ"}}},
	}
	srv := serveExtraction(t, detected, "2-14")
	defer srv.Close()

	client := New(Options{
		DocumentURL:   srv.URL + "/doc.pdf",
		ServiceURL:    srv.URL + "/extract",
		Pages:         "all",
		AutoPageRange: true,
		AutoStartPage: 2,
		Engine:        fixedPageCount(14),
	})

	tables, err := client.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestResolvePagesClamping(t *testing.T) {
	tests := []struct {
		name  string
		start int
		last  int
		want  string
	}{
		{name: "normal range", start: 2, last: 14, want: "2-14"},
		{name: "start clamped up to one", start: 0, last: 5, want: "1-5"},
		{name: "start clamped down to last", start: 9, last: 3, want: "3-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{
				AutoPageRange: true,
				AutoStartPage: tt.start,
				Engine:        fixedPageCount(tt.last),
			})
			got, err := c.resolvePages(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePagesPassThrough(t *testing.T) {
	c := New(Options{Pages: "2,4,9"})
	got, err := c.resolvePages(nil)
	require.NoError(t, err)
	assert.Equal(t, "2,4,9", got)
}

func TestExtractServiceError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	})
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no tables found", http.StatusUnprocessableEntity)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Options{
		DocumentURL: srv.URL + "/doc.pdf",
		ServiceURL:  srv.URL + "/extract",
		Pages:       "all",
	})
	_, err := client.Extract(context.Background())
	assert.ErrorContains(t, err, "status 422")
}
