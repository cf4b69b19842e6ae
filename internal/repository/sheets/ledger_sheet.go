package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/vinstock/internal/config"
	"github.com/mamadbah2/vinstock/internal/domain/models"
)

// DefaultLedgerRange is the sheet range ledger rows live in.
const DefaultLedgerRange = "Ventes!A:I"

// ErrNoSpreadsheet is returned when the ledger spreadsheet id is missing.
var ErrNoSpreadsheet = errors.New("ledger spreadsheet id is required")

// LedgerSheet is the spreadsheet holding the mirrored ledger.
type LedgerSheet interface {
	AppendRows(ctx context.Context, rows [][]interface{}) error
	CountRows(ctx context.Context) (int, error)
}

// GoogleLedgerSheet keeps the ledger in one range of a Google spreadsheet.
// The first row of the range holds the column titles.
type GoogleLedgerSheet struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	ledgerRange   string
	logger        *zap.Logger
}

// NewGoogleLedgerSheet authenticates with the service account file of cfg
// unless client options are given.
func NewGoogleLedgerSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleLedgerSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LedgerSpreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	ledgerRange := cfg.LedgerRange
	if ledgerRange == "" {
		ledgerRange = DefaultLedgerRange
	}

	return &GoogleLedgerSheet{
		values:        service.Spreadsheets.Values,
		spreadsheetID: cfg.LedgerSpreadsheetID,
		ledgerRange:   ledgerRange,
		logger:        logger,
	}, nil
}

// EnsureHeader writes the column titles when the ledger range is empty.
func (s *GoogleLedgerSheet) EnsureHeader(ctx context.Context) error {
	rows, err := s.read(ctx)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	header := make([]interface{}, len(models.LedgerColumns))
	for i, title := range models.LedgerColumns {
		header[i] = title
	}
	if err := s.AppendRows(ctx, [][]interface{}{header}); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	s.logger.Info("ledger header written", zap.String("range", s.ledgerRange))
	return nil
}

// AppendRows adds rows below the last filled row of the ledger range.
func (s *GoogleLedgerSheet) AppendRows(ctx context.Context, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	_, err := s.values.Append(s.spreadsheetID, s.ledgerRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows into %s: %w", len(rows), s.ledgerRange, err)
	}

	s.logger.Debug("ledger rows appended", zap.Int("rows", len(rows)))
	return nil
}

// CountRows returns the number of mirrored transactions, header excluded.
func (s *GoogleLedgerSheet) CountRows(ctx context.Context) (int, error) {
	rows, err := s.read(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && fmt.Sprint(row[0]) == models.LedgerColumns[0] {
			continue
		}
		count++
	}
	return count, nil
}

func (s *GoogleLedgerSheet) read(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.ledgerRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger range %s: %w", s.ledgerRange, err)
	}
	return resp.Values, nil
}
