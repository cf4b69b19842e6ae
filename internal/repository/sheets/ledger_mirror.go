package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

const mirrorDateLayout = "2006-01-02 15:04"

// LedgerMirror appends every recorded transaction to the ledger sheet, using
// the same columns as the CSV export.
type LedgerMirror struct {
	sheet  LedgerSheet
	loc    *time.Location
	logger *zap.Logger
}

// NewLedgerMirror wires a mirror over sheet.
func NewLedgerMirror(sheet LedgerSheet, loc *time.Location, logger *zap.Logger) *LedgerMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerMirror{sheet: sheet, loc: loc, logger: logger}
}

// TransactionRecorded appends tx as one row.
func (m *LedgerMirror) TransactionRecorded(ctx context.Context, tx models.Transaction) error {
	if err := m.sheet.AppendRows(ctx, [][]interface{}{LedgerRow(tx, m.loc)}); err != nil {
		return fmt.Errorf("mirror transaction %s: %w", tx.ID, err)
	}
	m.logger.Debug("transaction mirrored", zap.String("transaction_id", tx.ID))
	return nil
}

// MirroredRows counts the transactions present in the sheet.
func (m *LedgerMirror) MirroredRows(ctx context.Context) (int, error) {
	n, err := m.sheet.CountRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("count mirrored rows: %w", err)
	}
	return n, nil
}

// LedgerRow lays a transaction out as spreadsheet cells.
func LedgerRow(tx models.Transaction, loc *time.Location) []interface{} {
	return []interface{}{
		tx.Date.In(loc).Format(mirrorDateLayout),
		tx.WineName,
		string(tx.WineType),
		tx.Quantity,
		tx.Price,
		tx.Total,
		tx.Client,
		string(tx.Type),
		tx.SellerName,
	}
}
