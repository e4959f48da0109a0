package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financeiro/internal/core"
	"financeiro/internal/sheets"
)

const (
	// grid of a newly added month sheet
	newSheetRows = 100
	newSheetCols = 10

	valueInput  = "RAW"
	valueRender = "UNFORMATTED_VALUE"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // sheet title -> sheetId, nil until loaded
	ensure   singleflight.Group
}

// Ensure interface conformance
var (
	_ sheets.Mirror      = (*Client)(nil)
	_ sheets.SheetLister = (*Client)(nil)
)

// New creates a client for spreadsheetID. opts are passed to the Sheets
// service and carry the credentials.
func New(ctx context.Context, spreadsheetID string, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Credentials locates a service account key. JSON wins over File, File over
// ApplicationFile.
type Credentials struct {
	JSON            string
	File            string
	ApplicationFile string
}

// CredentialsFromEnv reads GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE and GOOGLE_APPLICATION_CREDENTIALS.
func CredentialsFromEnv() Credentials {
	return Credentials{
		JSON:            os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		File:            os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		ApplicationFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
}

// NewWithCredentials creates a client for spreadsheetID authenticated with
// the service account key creds points to.
func NewWithCredentials(ctx context.Context, spreadsheetID string, creds Credentials) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	key, err := creds.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(ctx, spreadsheetID,
		goption.WithCredentialsJSON(key),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
func NewFromEnv(ctx context.Context) (*Client, error) {
	return NewWithCredentials(ctx, os.Getenv("GOOGLE_SPREADSHEET_ID"), CredentialsFromEnv())
}

func (c Credentials) load(ctx context.Context) ([]byte, error) {
	inline := strings.TrimSpace(c.JSON)
	file := strings.TrimSpace(c.File)
	if inline == "" && file == "" {
		file = strings.TrimSpace(c.ApplicationFile)
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading service account credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// EnsureSheet creates the month sheet and writes the header row when the
// sheet is new or its first row is empty. Concurrent calls for the same
// month share one round trip.
func (c *Client) EnsureSheet(ctx context.Context, key core.SheetKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	title := key.String()
	_, err, _ := c.ensure.Do(title, func() (any, error) {
		return nil, c.ensureSheet(ctx, title)
	})
	return err
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	_, ok, err := c.sheetID(ctx, title)
	if err != nil {
		return err
	}
	if !ok {
		if err := c.addSheet(ctx, title); err != nil {
			return err
		}
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1(title, "A1:H1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", title, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: [][]any{sheets.HeaderValues()}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1(title, "A1:H1"), vr).
		ValueInputOption(valueInput).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", title, err)
	}
	slog.InfoContext(ctx, "Wrote month sheet header", "sheet", title)
	return nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{
			Title: title,
			GridProperties: &gsheet.GridProperties{
				RowCount:    newSheetRows,
				ColumnCount: newSheetCols,
			},
		}},
	}}}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		if c.sheetIDs == nil {
			c.sheetIDs = map[string]int64{}
		}
		c.sheetIDs[title] = resp.Replies[0].AddSheet.Properties.SheetId
	} else {
		// reload on next lookup
		c.sheetIDs = nil
	}
	slog.InfoContext(ctx, "Created month sheet", "sheet", title)
	return nil
}

// AppendRow adds row after the last used row of the month sheet.
func (c *Client) AppendRow(ctx context.Context, key core.SheetKey, row sheets.Row) error {
	if err := c.EnsureSheet(ctx, key); err != nil {
		return err
	}
	title := key.String()
	vr := &gsheet.ValueRange{Values: [][]any{row.Values()}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1(title, "A:H"), vr).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row %d to %s: %w", row.ID, title, err)
	}
	return nil
}

func (c *Client) FindRowByID(ctx context.Context, key core.SheetKey, id int64) (sheets.Row, bool, error) {
	_, cells, ok, err := c.locate(ctx, key.String(), id)
	if err != nil || !ok {
		return sheets.Row{}, false, err
	}
	row, err := sheets.ParseRow(cells)
	if err != nil {
		return sheets.Row{}, false, fmt.Errorf("row %d in %s: %w", id, key, err)
	}
	return row, true, nil
}

func (c *Client) UpdateRow(ctx context.Context, key core.SheetKey, id int64, row sheets.Row) (bool, error) {
	title := key.String()
	n, _, ok, err := c.locate(ctx, title, id)
	if err != nil || !ok {
		return false, err
	}
	row.ID = id
	rng := a1(title, fmt.Sprintf("A%d:H%d", n, n))
	vr := &gsheet.ValueRange{Values: [][]any{row.Values()}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInput).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("update %s: %w", rng, err)
	}
	return true, nil
}

func (c *Client) DeleteRow(ctx context.Context, key core.SheetKey, id int64) (bool, error) {
	title := key.String()
	sheetID, ok, err := c.sheetID(ctx, title)
	if err != nil || !ok {
		return false, err
	}
	n, _, ok, err := c.locate(ctx, title, id)
	if err != nil || !ok {
		return false, err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(n - 1),
			EndIndex:   int64(n),
			// sheetId 0 is the first sheet and must still be sent
			ForceSendFields: []string{"SheetId", "StartIndex"},
		}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("delete row %d of %s: %w", n, title, err)
	}
	return true, nil
}

// ListRows returns the data rows of the month sheet. Rows that cannot be
// parsed are skipped and logged.
func (c *Client) ListRows(ctx context.Context, key core.SheetKey) ([]sheets.Row, error) {
	title := key.String()
	values, ok, err := c.readSheet(ctx, title)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]sheets.Row, 0, len(values))
	for i, cells := range values {
		if i == 0 || isBlank(cells) {
			continue
		}
		row, err := sheets.ParseRow(cells)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed sheet row", "sheet", title, "row", i+1, "error", err)
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// ListSheets returns the month sheets of the spreadsheet in tab order;
// tabs whose title is not MM-YYYY are ignored.
func (c *Client) ListSheets(ctx context.Context) ([]core.SheetKey, error) {
	titles, err := c.loadSheetIDs(ctx)
	if err != nil {
		return nil, err
	}
	var keys []core.SheetKey
	for _, t := range titles {
		if k, err := core.ParseSheetKey(t); err == nil {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// locate scans column A for id and returns the 1-based row number.
func (c *Client) locate(ctx context.Context, title string, id int64) (int, []any, bool, error) {
	values, ok, err := c.readSheet(ctx, title)
	if err != nil || !ok {
		return 0, nil, false, err
	}
	for i, cells := range values {
		if i == 0 || len(cells) == 0 {
			continue
		}
		if got, ok := sheets.CellID(cells[0]); ok && got == id {
			return i + 1, cells, true, nil
		}
	}
	return 0, nil, false, nil
}

// readSheet reads all values of a sheet; a missing sheet is not an error.
func (c *Client) readSheet(ctx context.Context, title string) ([][]any, bool, error) {
	if _, ok, err := c.sheetID(ctx, title); err != nil || !ok {
		return nil, false, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1(title, "A:H")).
		ValueRenderOption(valueRender).
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", title, err)
	}
	return resp.Values, true, nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, bool, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[title]
	c.mu.Unlock()
	if ok {
		return id, true, nil
	}
	// the sheet may have been added by someone else since the last load
	if _, err := c.loadSheetIDs(ctx); err != nil {
		return 0, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok = c.sheetIDs[title]
	return id, ok, nil
}

// loadSheetIDs refreshes the title -> sheetId cache and returns the titles
// in tab order.
func (c *Client) loadSheetIDs(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}
	ids := make(map[string]int64, len(resp.Sheets))
	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
			titles = append(titles, sh.Properties.Title)
		}
	}
	c.mu.Lock()
	c.sheetIDs = ids
	c.mu.Unlock()
	return titles, nil
}

// a1 builds a quoted A1 range; month titles contain '-'.
func a1(title, rng string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(title, "'", "''"), rng)
}

func isBlank(cells []any) bool {
	for _, v := range cells {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
