// ABOUTME: Google Sheets-backed Workbook using the Sheets v4 API.
// ABOUTME: Each sheet is a tab; rows are appended RAW and read back unformatted.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SheetsConfig locates a spreadsheet and the credentials used to reach it.
type SheetsConfig struct {
	SpreadsheetID string
	// CredentialsFile is a service account key. Empty means application
	// default credentials.
	CredentialsFile string
	// Endpoint overrides the API base URL and disables authentication.
	Endpoint string
}

// SheetsWorkbook is a Workbook over one Google spreadsheet.
type SheetsWorkbook struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// Compile-time check that SheetsWorkbook implements Workbook.
var _ Workbook = (*SheetsWorkbook)(nil)

// OpenSheets creates a Sheets API client for cfg.SpreadsheetID.
func OpenSheets(ctx context.Context, cfg SheetsConfig) (*SheetsWorkbook, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required for the sheets backend")
	}

	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		conf, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(conf.TokenSource(ctx)))
	default:
		creds, err := google.FindDefaultCredentials(ctx, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("find default credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsWorkbook{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (w *SheetsWorkbook) Sheet(ctx context.Context, name string) (Sheet, error) {
	ok, err := w.hasSheet(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSheetNotFound
	}
	return &sheetsTab{book: w, title: name}, nil
}

func (w *SheetsWorkbook) CreateSheet(ctx context.Context, name string, header Row) error {
	ok, err := w.hasSheet(ctx, name)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}

	if header == nil {
		return nil
	}
	tab := &sheetsTab{book: w, title: name}
	return tab.AppendRow(ctx, header)
}

// Close is a no-op; the API client holds no persistent connection.
func (w *SheetsWorkbook) Close() error {
	return nil
}

func (w *SheetsWorkbook) hasSheet(ctx context.Context, name string) (bool, error) {
	ss, err := w.svc.Spreadsheets.Get(w.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return true, nil
		}
	}
	return false, nil
}

// sheetsTab is one tab of a SheetsWorkbook.
type sheetsTab struct {
	book  *SheetsWorkbook
	title string
}

func (t *sheetsTab) AppendRow(ctx context.Context, row Row) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{row}}
	_, err := t.book.svc.Spreadsheets.Values.Append(t.book.spreadsheetID, a1Range(t.title, "A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", t.title, err)
	}
	return nil
}

func (t *sheetsTab) Rows(ctx context.Context) ([]Row, error) {
	resp, err := t.book.svc.Spreadsheets.Values.Get(t.book.spreadsheetID, a1Range(t.title, "")).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values of %s: %w", t.title, err)
	}

	rows := make([]Row, len(resp.Values))
	for i, v := range resp.Values {
		rows[i] = Row(v)
	}
	return rows, nil
}

// a1Range quotes a sheet title for A1 notation, optionally with a cell.
func a1Range(title, cell string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if cell == "" {
		return quoted
	}
	return quoted + "!" + cell
}
