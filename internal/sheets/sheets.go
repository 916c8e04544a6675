// Package sheets appends synthesized records to a Google Sheets
// worksheet. One client, one append contract: records land as 15-column
// rows (A..O) starting at the first unused row of the destination sheet,
// which is created when absent.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/quotatab/quotatab/internal/record"
)

const (
	newSheetRows = 2000
	newSheetCols = 30
	dateLayout   = "2006/01/02"
)

// Appender is the storage contract the pipeline output is handed to.
type Appender interface {
	Append(ctx context.Context, records []record.Record) error
}

// Client implements Appender against the Google Sheets API.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetTitle    string
	now           func() time.Time
}

// New builds a client authenticated with a service-account key file.
func New(ctx context.Context, credentialsFile, spreadsheetID, sheetTitle string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetTitle:    sheetTitle,
		now:           time.Now,
	}, nil
}

// Append writes the records below the sheet's existing content. Nothing
// to append is not an error.
func (c *Client) Append(ctx context.Context, records []record.Record) error {
	if len(records) == 0 {
		slog.Info("no records to append")
		return nil
	}

	if err := c.ensureWorksheet(ctx); err != nil {
		return err
	}

	start, err := c.firstEmptyRow(ctx)
	if err != nil {
		return err
	}

	today := c.now().Format(dateLayout)
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = rowValues(rec, today)
	}

	writeRange := updateRange(c.sheetTitle, start, len(rows))
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, writeRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append records: %w", err)
	}

	slog.Info("appended records", "count", len(rows), "range", writeRange)
	return nil
}

// ensureWorksheet creates the destination sheet when the spreadsheet
// does not have it yet.
func (c *Client) ensureWorksheet(ctx context.Context) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetTitle {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: c.sheetTitle,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    newSheetRows,
						ColumnCount: newSheetCols,
					},
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", c.sheetTitle, err)
	}
	slog.Info("created worksheet", "title", c.sheetTitle)
	return nil
}

// firstEmptyRow returns the 1-based row number right below the sheet's
// populated range.
func (c *Client) firstEmptyRow(ctx context.Context) (int, error) {
	vr, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("%s!A:O", c.sheetTitle)).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read existing rows: %w", err)
	}
	return len(vr.Values) + 1, nil
}

// updateRange renders the A..O range reference for count rows starting
// at row start.
func updateRange(title string, start, count int) string {
	return fmt.Sprintf("%s!A%d:O%d", title, start, start+count-1)
}

// rowValues maps one record onto the fixed 15-column layout:
// A change flag, B date, C group id, D substance name, E reserved,
// F amount1, G condition, H amount2, I amount3, J amount4, K unit,
// L note, M/N reserved, O source URL.
func rowValues(rec record.Record, date string) []interface{} {
	return []interface{}{
		0,
		date,
		0,
		rec.Name,
		"",
		rec.Amount1,
		rec.Condition,
		rec.Amount2,
		rec.Amount3,
		rec.Amount4,
		rec.Unit,
		rec.Note,
		"",
		"",
		rec.SourceURL,
	}
}
