package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valuesAPI is the slice of the Sheets API the store needs. The production
// implementation talks to Google; tests substitute an in-memory sheet.
type valuesAPI interface {
	EnsureWorksheet(ctx context.Context, title string) (created bool, err error)
	Get(ctx context.Context, rng string) ([][]interface{}, error)
	Clear(ctx context.Context, rng string) error
	Update(ctx context.Context, rng string, values [][]interface{}) error
}

// SheetsStore keeps the record set in one worksheet of a Google spreadsheet.
// Row 1 is the header; every save clears the worksheet and rewrites it.
type SheetsStore struct {
	api       valuesAPI
	worksheet string
}

// SheetsOptions identifies the spreadsheet and the credentials to reach it.
type SheetsOptions struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	CredentialsJSON string
}

// NewSheetsStore connects to the spreadsheet and makes sure the worksheet
// exists, creating it with the header row when missing. Any failure here
// means the remote backend is unusable and the caller should fall back.
func NewSheetsStore(ctx context.Context, opts SheetsOptions) (*SheetsStore, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is empty")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	default:
		return nil, errors.New("no service account credentials configured")
	}

	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}

	return newSheetsStore(ctx, &googleValues{srv: srv, spreadsheetID: opts.SpreadsheetID}, opts.Worksheet)
}

func newSheetsStore(ctx context.Context, api valuesAPI, worksheet string) (*SheetsStore, error) {
	if worksheet == "" {
		worksheet = "Inventario"
	}
	s := &SheetsStore{api: api, worksheet: worksheet}

	created, err := api.EnsureWorksheet(ctx, worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to open worksheet %q: %w", worksheet, err)
	}
	if created {
		if err := api.Update(ctx, s.rangeA1(), [][]interface{}{toCells(models.Columns)}); err != nil {
			return nil, fmt.Errorf("failed to write header to worksheet %q: %w", worksheet, err)
		}
	}
	return s, nil
}

func (s *SheetsStore) Backend() Backend { return BackendRemote }

// Load reads every row of the worksheet.
func (s *SheetsStore) Load(ctx context.Context) ([]models.Record, error) {
	values, err := s.api.Get(ctx, s.rangeAll())
	if err != nil {
		return emptySet(), &ReadError{Backend: BackendRemote, Err: err}
	}

	records := emptySet()
	if len(values) == 0 {
		return records, nil
	}
	header := toStrings(values[0])
	for _, row := range values[1:] {
		cells := toStrings(row)
		if isBlank(cells) {
			continue
		}
		records = append(records, models.RecordFromRow(header, cells))
	}
	return records, nil
}

// Save clears the worksheet and writes the header plus all records as text.
func (s *SheetsStore) Save(ctx context.Context, records []models.Record) error {
	if err := s.api.Clear(ctx, s.rangeAll()); err != nil {
		return &WriteError{Backend: BackendRemote, Err: err}
	}

	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, toCells(models.Columns))
	for _, r := range records {
		values = append(values, toCells(r.Row()))
	}
	if err := s.api.Update(ctx, s.rangeA1(), values); err != nil {
		return &WriteError{Backend: BackendRemote, Err: err}
	}
	return nil
}

func (s *SheetsStore) rangeAll() string {
	return quoteSheet(s.worksheet)
}

func (s *SheetsStore) rangeA1() string {
	return quoteSheet(s.worksheet) + "!A1"
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// googleValues implements valuesAPI on top of the Sheets v4 client.
type googleValues struct {
	srv           *sheets.Service
	spreadsheetID string
}

func (g *googleValues) EnsureWorksheet(ctx context.Context, title string) (bool, error) {
	ss, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return false, nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    100,
						ColumnCount: int64(len(models.Columns)),
					},
				},
			},
		}},
	}
	if _, err := g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, err
	}
	return true, nil
}

func (g *googleValues) Get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Clear(ctx context.Context, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(g.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *googleValues) Update(ctx context.Context, rng string, values [][]interface{}) error {
	_, err := g.srv.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
