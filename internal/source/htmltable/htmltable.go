// Package htmltable extracts raw tables from the HTML edition of the
// usage-limit listings. The site serves the actual document inside an
// iframe and in a legacy encoding, so fetching goes through charset
// detection and an optional iframe hop before the DOM walk.
package htmltable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/quotatab/quotatab/internal/grid"
)

// ErrContentsNotFound is returned when neither the #contents nor the
// .contents node exists in the fetched document.
var ErrContentsNotFound = errors.New("contents node not found in document")

var innerWS = regexp.MustCompile(`\s+`)

// Client fetches one page and walks its tables.
type Client struct {
	http        *resty.Client
	pageURL     string
	iframeFirst bool
}

// New returns a client for the given page. With iframeFirst set, the
// first iframe of the outer document is followed and its target parsed
// instead; the t_doc pages keep their body there.
func New(pageURL string, iframeFirst bool) *Client {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	return &Client{
		http:        client,
		pageURL:     pageURL,
		iframeFirst: iframeFirst,
	}
}

// Extract implements source.Source.
func (c *Client) Extract(ctx context.Context) ([]grid.Table, error) {
	doc, err := c.fetchDocument(ctx, c.pageURL)
	if err != nil {
		return nil, err
	}

	if c.iframeFirst {
		if src, ok := doc.Find("iframe[src]").First().Attr("src"); ok {
			inner, err := resolveURL(c.pageURL, src)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve iframe url %q: %w", src, err)
			}
			doc, err = c.fetchDocument(ctx, inner)
			if err != nil {
				return nil, err
			}
		}
	}

	contents := findContents(doc)
	if contents == nil {
		return nil, ErrContentsNotFound
	}

	var tables []grid.Table
	for i, tbl := range collectTables(contents) {
		tables = append(tables, grid.Table{
			Order:     i,
			SourceURL: c.pageURL,
			Rows:      tableRows(tbl),
		})
	}
	return tables, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	res, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", pageURL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to fetch %q: status %d", pageURL, res.StatusCode())
	}

	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", pageURL, err)
	}
	return doc, nil
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func findContents(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"div#contents", "div.contents", "#contents", ".contents"} {
		node := doc.Find(sel).First()
		if node.Length() > 0 {
			return node
		}
	}
	return nil
}

// collectTables walks the document's block structure: div[id] blocks
// hold div.table_frame frames, each frame holds its tables either
// directly or inside a wrapper div. "table_wrpper" is a typo that ships
// in the real pages.
func collectTables(contents *goquery.Selection) []*goquery.Selection {
	var tables []*goquery.Selection
	appendTables := func(scope *goquery.Selection) {
		scope.Find("table.b-on").Each(func(_ int, tbl *goquery.Selection) {
			tables = append(tables, tbl)
		})
	}

	blocks := contents.ChildrenFiltered("div[id]")
	if blocks.Length() == 0 {
		blocks = contents.Find("div[id]")
	}
	blocks.Each(func(_ int, block *goquery.Selection) {
		block.Find("div.table_frame").Each(func(_ int, frame *goquery.Selection) {
			wrappers := frame.Find("div.table_wrpper, div.table_wrapper, div.table-wrapper")
			if wrappers.Length() > 0 {
				wrappers.Each(func(_ int, wp *goquery.Selection) {
					appendTables(wp)
				})
			} else {
				appendTables(frame)
			}
		})
	})
	return tables
}

// tableRows collects the class-less direct tr children; rows carrying a
// class are decoration (spacers, repeated captions).
func tableRows(tbl *goquery.Selection) []grid.Row {
	root := tbl.Find("tbody").First()
	if root.Length() == 0 {
		root = tbl
	}
	var rows []grid.Row
	root.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		if _, hasClass := tr.Attr("class"); hasClass {
			return
		}
		rows = append(rows, rowCells(tr))
	})
	return rows
}

// rowCells joins the text of each td's paragraph children into one cell
// string.
func rowCells(tr *goquery.Selection) grid.Row {
	var cells grid.Row
	tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
		var texts []string
		td.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := collapseText(p.Text())
			if t != "" {
				texts = append(texts, t)
			}
		})
		cells = append(cells, strings.Join(texts, " "))
	})
	return cells
}

func collapseText(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	return strings.TrimSpace(innerWS.ReplaceAllString(s, " "))
}
