package reporting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/alerts"
	"github.com/mamadbah2/vinstock/internal/service/analytics"
	"github.com/mamadbah2/vinstock/internal/service/state"
)

const (
	exportDateLayout = "02/01/2006"
	fileDateLayout   = "2006-01-02"
)

// ErrNothingToExport is returned when the ledger is empty.
var ErrNothingToExport = errors.New("Aucune vente à exporter.")

// DigestArchive keeps generated digests.
type DigestArchive interface {
	SaveDailyDigest(ctx context.Context, digest models.DailyDigest) error
}

// LedgerMirror reports how many transactions an external copy of the
// ledger holds.
type LedgerMirror interface {
	MirroredRows(ctx context.Context) (int, error)
}

// Service builds the ledger export and the end-of-day digest.
type Service struct {
	store   *state.Store
	archive DigestArchive
	mirror  LedgerMirror
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires a reporting service. archive may be nil.
func NewService(store *state.Store, archive DigestArchive, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, archive: archive, loc: loc, now: time.Now, logger: logger}
}

// SetClock overrides the reporting clock.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetLedgerMirror makes the digest reconcile the ledger with mirror.
func (s *Service) SetLedgerMirror(mirror LedgerMirror) {
	s.mirror = mirror
}

// ExportCSV renders the ledger as a comma separated table and proposes a
// file name for the download.
func (s *Service) ExportCSV() ([]byte, string, error) {
	txs := s.store.Transactions()
	if len(txs) == 0 {
		return nil, "", ErrNothingToExport
	}

	filename := fmt.Sprintf("Export_Ventes_VinStock_%s.csv", s.now().In(s.loc).Format(fileDateLayout))
	return RenderCSV(txs, s.loc), filename, nil
}

// RenderCSV serialises transactions in order. Free text has its commas
// replaced by spaces and nothing is quoted.
func RenderCSV(txs []models.Transaction, loc *time.Location) []byte {
	if loc == nil {
		loc = time.UTC
	}

	lines := make([]string, 0, len(txs)+1)
	lines = append(lines, strings.Join(models.LedgerColumns, ","))
	for _, tx := range txs {
		lines = append(lines, strings.Join([]string{
			tx.Date.In(loc).Format(exportDateLayout),
			stripCommas(tx.WineName),
			string(tx.WineType),
			strconv.Itoa(tx.Quantity),
			strconv.Itoa(tx.Price),
			strconv.Itoa(tx.Total),
			stripCommas(tx.Client),
			string(tx.Type),
			stripCommas(tx.SellerName),
		}, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}

// GenerateDailyDigest summarises alerts and the sales of the current day
// and archives the result when an archive is configured.
func (s *Service) GenerateDailyDigest(ctx context.Context) (models.DailyDigest, error) {
	now := s.now().In(s.loc)
	snap := s.store.Snapshot()

	result := alerts.Evaluate(snap.Wines, snap.Rules)
	kpis := analytics.ComputeKPIs(snap.Wines, snap.Transactions, now)

	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	digest := models.DailyDigest{
		Date:                start,
		TotalBottles:        kpis.TotalBottles,
		StockOut:            wineNames(result.StockOut),
		LowStock:            wineNames(result.LowStock),
		OverStock:           wineNames(result.OverStock),
		CustomAlerts:        len(result.Custom),
		CurrentMonthRevenue: kpis.CurrentMonthRevenue,
		LedgerEntries:       len(snap.Transactions),
		CreatedAt:           now,
	}

	for _, tx := range snap.Transactions {
		if !tx.Type.IsSale() {
			continue
		}
		d := tx.Date.In(s.loc)
		if d.Before(start) || !d.Before(end) {
			continue
		}
		digest.DayRevenue += tx.Total
		digest.DayBottlesSold += tx.Quantity
	}

	if s.mirror != nil {
		mirrored, err := s.mirror.MirroredRows(ctx)
		if err != nil {
			s.logger.Warn("ledger mirror unavailable for reconciliation", zap.Error(err))
		} else {
			digest.MirrorChecked = true
			digest.MirroredEntries = mirrored
		}
	}

	if s.archive != nil {
		if err := s.archive.SaveDailyDigest(ctx, digest); err != nil {
			return digest, fmt.Errorf("archive daily digest: %w", err)
		}
	}

	s.logger.Info("daily digest generated",
		zap.Int("stock_out", len(digest.StockOut)),
		zap.Int("low_stock", len(digest.LowStock)),
		zap.Int("day_revenue", digest.DayRevenue),
		zap.Int("mirror_gap", digest.MirrorGap()))
	return digest, nil
}

// FormatDigest renders a digest as a chat message.
func FormatDigest(d models.DailyDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍷 VinStock · bilan du %s\n", d.Date.Format(exportDateLayout))
	fmt.Fprintf(&b, "Ventes du jour : %s FCFA (%d btls)\n", groupThousands(d.DayRevenue), d.DayBottlesSold)
	fmt.Fprintf(&b, "Ventes du mois : %s FCFA\n", groupThousands(d.CurrentMonthRevenue))
	fmt.Fprintf(&b, "Bouteilles en stock : %d\n", d.TotalBottles)
	writeList(&b, "Ruptures", d.StockOut)
	writeList(&b, "Stock bas", d.LowStock)
	writeList(&b, "Surstock", d.OverStock)
	if d.CustomAlerts > 0 {
		fmt.Fprintf(&b, "Alertes personnalisées : %d\n", d.CustomAlerts)
	}
	if d.MirrorGap() != 0 {
		fmt.Fprintf(&b, "Écart Google Sheets : %d lignes pour %d transactions\n", d.MirroredEntries, d.LedgerEntries)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeList(b *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d) : %s\n", title, len(names), strings.Join(names, ", "))
}

func wineNames(wines []models.Wine) []string {
	names := make([]string, 0, len(wines))
	for _, w := range wines {
		names = append(names, w.Name)
	}
	return names
}

func groupThousands(n int) string {
	return message.NewPrinter(language.French).Sprintf("%d", n)
}
