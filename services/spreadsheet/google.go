package sheetsvc

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/trezcool/registrar/core"
)

// GoogleSheets is a Google Sheets spreadsheet, authenticated with a service account.
type GoogleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

var _ core.Spreadsheet = (*GoogleSheets)(nil)

func NewGoogleSheets(ctx context.Context, spreadsheetID, credentialsFile string, timeout time.Duration) (*GoogleSheets, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(spreadsheetID, "spreadsheetID"),
		vala.StringNotEmpty(credentialsFile, "credentialsFile"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating google sheets client")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating google sheets client")
	}
	return &GoogleSheets{svc: svc, spreadsheetID: spreadsheetID, timeout: timeout}, nil
}

func (gs *GoogleSheets) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if gs.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, gs.timeout)
}

func (gs *GoogleSheets) properties(ctx context.Context) ([]*sheets.SheetProperties, error) {
	ctx, cancel := gs.withTimeout(ctx)
	defer cancel()

	ss, err := gs.svc.Spreadsheets.Get(gs.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "getting spreadsheet")
	}
	props := make([]*sheets.SheetProperties, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			props = append(props, s.Properties)
		}
	}
	return props, nil
}

func (gs *GoogleSheets) ListTabs(ctx context.Context) ([]string, error) {
	props, err := gs.properties(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(props))
	for _, p := range props {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

func (gs *GoogleSheets) CreateTab(ctx context.Context, title string) error {
	return gs.batchUpdate(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
	})
}

func (gs *GoogleSheets) ClearTab(ctx context.Context, title string) error {
	ctx, cancel := gs.withTimeout(ctx)
	defer cancel()

	_, err := gs.svc.Spreadsheets.Values.
		Clear(gs.spreadsheetID, core.QuoteTab(title), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return errors.Wrap(err, "clearing values")
}

func (gs *GoogleSheets) WriteRange(ctx context.Context, a1Range string, values [][]interface{}) error {
	ctx, cancel := gs.withTimeout(ctx)
	defer cancel()

	_, err := gs.svc.Spreadsheets.Values.
		Update(gs.spreadsheetID, a1Range, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return errors.Wrap(err, "updating values")
}

func (gs *GoogleSheets) ResizeColumns(ctx context.Context, title string, count int) error {
	props, err := gs.properties(ctx)
	if err != nil {
		return err
	}
	for _, p := range props {
		if p.Title != title {
			continue
		}
		return gs.batchUpdate(ctx, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:         p.SheetId,
					Dimension:       "COLUMNS",
					StartIndex:      0,
					EndIndex:        int64(count),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		})
	}
	return errors.Errorf("tab %q not found", title)
}

func (gs *GoogleSheets) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	ctx, cancel := gs.withTimeout(ctx)
	defer cancel()

	res, err := gs.svc.Spreadsheets.Values.Get(gs.spreadsheetID, a1Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "getting values")
	}
	rows := make([][]string, 0, len(res.Values))
	for _, r := range res.Values {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = formatValue(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (gs *GoogleSheets) batchUpdate(ctx context.Context, reqs ...*sheets.Request) error {
	ctx, cancel := gs.withTimeout(ctx)
	defer cancel()

	_, err := gs.svc.Spreadsheets.
		BatchUpdate(gs.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	return errors.Wrap(err, "updating spreadsheet")
}
