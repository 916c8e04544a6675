// Package lattice extracts raw tables from PDF documents. Grid-line
// based table detection itself runs in an external lattice-extraction
// service; this package downloads the document, resolves the page
// selector, and wraps the service call.
package lattice

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quotatab/quotatab/internal/grid"
	"github.com/quotatab/quotatab/internal/normalize"
	"github.com/quotatab/quotatab/internal/pdfinfo"
)

// Lattice tuning forwarded to the extraction service. The values match
// the ruling-line density of the MHLW documents.
const (
	lineScale = 40
	copyText  = "h,v"
	stripText = "\n"
)

// Options configures a PDF extraction run.
type Options struct {
	// DocumentURL is where the PDF is downloaded from; it is also the
	// SourceURL stamped on every extracted table.
	DocumentURL string
	// ServiceURL is the lattice-extraction service endpoint.
	ServiceURL string
	// Pages is the page selector: "all", "2-12", or "2,4,9".
	Pages string
	// ExcludePages lists page numbers whose tables are discarded.
	ExcludePages map[int]bool
	// AutoPageRange replaces Pages with "<AutoStartPage>-<last page>",
	// clamped to the document's page count.
	AutoPageRange bool
	AutoStartPage int
	// Engine inspects the downloaded document for AutoPageRange.
	Engine pdfinfo.Engine
}

// Client talks to the lattice-extraction service.
type Client struct {
	http *resty.Client
	opts Options
}

// New returns a client for the given run options.
func New(opts Options) *Client {
	client := resty.New()
	client.SetTimeout(time.Minute * 2)
	return &Client{http: client, opts: opts}
}

// serviceTable is one detected grid in the service response.
type serviceTable struct {
	Page  int        `json:"page"`
	Order int        `json:"order"`
	Rows  []grid.Row `json:"rows"`
}

type serviceResponse struct {
	Tables []serviceTable `json:"tables"`
}

// Extract implements source.Source: download, resolve pages, detect,
// clean, order.
func (c *Client) Extract(ctx context.Context) ([]grid.Table, error) {
	data, err := c.download(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := c.resolvePages(data)
	if err != nil {
		return nil, err
	}

	detected, err := c.detect(ctx, data, pages)
	if err != nil {
		return nil, err
	}

	var tables []grid.Table
	for _, st := range detected {
		if c.opts.ExcludePages[st.Page] {
			continue
		}
		t := normalize.Table(grid.Table{
			Page:      st.Page,
			Order:     st.Order,
			SourceURL: c.opts.DocumentURL,
			Rows:      st.Rows,
		})
		// Single-row or single-column grids are detection artifacts.
		if len(t.Rows) < 2 || t.Columns() < 2 {
			continue
		}
		tables = append(tables, t)
	}

	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].Page != tables[j].Page {
			return tables[i].Page < tables[j].Page
		}
		return tables[i].Order < tables[j].Order
	})
	return tables, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(c.opts.DocumentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", c.opts.DocumentURL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to download %q: status %d", c.opts.DocumentURL, res.StatusCode())
	}
	return res.Body(), nil
}

// resolvePages returns the configured selector, or "<start>-<last>" when
// the automatic range is enabled.
func (c *Client) resolvePages(data []byte) (string, error) {
	if !c.opts.AutoPageRange {
		return c.opts.Pages, nil
	}
	last, err := c.opts.Engine.PageCount(data)
	if err != nil {
		return "", fmt.Errorf("failed to count pages: %w", err)
	}
	start := c.opts.AutoStartPage
	if start < 1 {
		start = 1
	}
	if start > last {
		start = last
	}
	return fmt.Sprintf("%d-%d", start, last), nil
}

func (c *Client) detect(ctx context.Context, data []byte, pages string) ([]serviceTable, error) {
	var out serviceResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/pdf").
		SetQueryParams(map[string]string{
			"flavor":     "lattice",
			"pages":      pages,
			"line_scale": strconv.Itoa(lineScale),
			"copy_text":  copyText,
			"strip_text": stripText,
		}).
		SetBody(data).
		SetResult(&out).
		Post(c.opts.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("lattice service request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("lattice service request failed: status %d: %s", res.StatusCode(), res.String())
	}
	return out.Tables, nil
}
