package stock

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/repository/memory"
	"github.com/mamadbah2/vinstock/internal/service/state"
	"github.com/mamadbah2/vinstock/internal/validation"
)

type hookRecorder struct {
	recorded    []models.Transaction
	ctxErrs     []error
	hasDeadline []bool
	err         error
}

func (h *hookRecorder) TransactionRecorded(ctx context.Context, tx models.Transaction) error {
	h.recorded = append(h.recorded, tx)
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
	_, ok := ctx.Deadline()
	h.hasDeadline = append(h.hasDeadline, ok)
	return h.err
}

type EngineTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *state.Store
	engine *Engine
	hook   *hookRecorder
	clock  time.Time
	seq    int
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)
	s.seq = 0

	s.store = state.NewStore(memory.NewStore(), "", nil)
	s.store.SetClock(func() time.Time { return s.clock })
	s.Require().NoError(s.store.Load(s.ctx))

	s.hook = &hookRecorder{}
	s.engine = NewEngine(s.store, nil, s.hook)
	s.engine.dispatch = func(fn func()) { fn() }
	s.engine.SetClock(func() time.Time { return s.clock })
	s.engine.newID = func() string {
		s.seq++
		return fmt.Sprintf("id-%d", s.seq)
	}
}

func (s *EngineTestSuite) wine(id string) models.Wine {
	for _, w := range s.store.Wines() {
		if w.ID == id {
			return w
		}
	}
	s.FailNow("wine not found", id)
	return models.Wine{}
}

func (s *EngineTestSuite) TestAdjustClampsAtZero() {
	tx, err := s.engine.Adjust(s.ctx, "4", -20, models.FlowBreak)
	s.Require().NoError(err)

	s.Equal(0, s.wine("4").Quantity)
	s.Equal(20, tx.Quantity)
	s.Equal(165000, tx.Price)
	s.Equal(20*165000, tx.Total)
	s.Equal(models.AdjustmentClient, tx.Client)
	s.Equal(models.AdjustmentSeller, tx.SellerName)
	s.Equal(s.clock, tx.Date)
	s.Equal(models.FlowBreak, tx.Type)
	s.Equal("Dom Pérignon Vintage", tx.WineName)
	s.Len(s.store.Transactions(), 1)
	s.Len(s.hook.recorded, 1)
}

func (s *EngineTestSuite) TestAdjustIncrementWithSaleType() {
	tx, err := s.engine.Adjust(s.ctx, "1", 1, models.FlowSale)
	s.Require().NoError(err)

	s.Equal(25, s.wine("1").Quantity)
	s.Equal(1, tx.Quantity)
	s.Equal(models.CounterClient, tx.Client)
}

func (s *EngineTestSuite) TestAdjustRejectsZeroAndUnknownWine() {
	_, err := s.engine.Adjust(s.ctx, "1", 0, models.FlowSale)
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.engine.Adjust(s.ctx, "1", -1, models.TransactionType("Don"))
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.engine.Adjust(s.ctx, "missing", -1, models.FlowLoss)
	s.ErrorIs(err, ErrWineNotFound)
	s.Empty(s.store.Transactions())
}

func (s *EngineTestSuite) TestRecordSale() {
	tx, err := s.engine.RecordSale(s.ctx, SaleInput{
		WineID:     "2",
		Quantity:   3,
		Price:      24000,
		Date:       "2025-06-01",
		SellerName: "Mamadou Vendeur",
	})
	s.Require().NoError(err)

	s.Equal(57, s.wine("2").Quantity)
	s.Equal(72000, tx.Total)
	s.Equal(models.CounterClient, tx.Client)
	s.Equal(models.FlowSale, tx.Type)
	s.Equal("Mamadou Vendeur", tx.SellerName)
	s.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	s.Len(s.hook.recorded, 1)
}

func (s *EngineTestSuite) TestRecordSaleDefaultsDateToNow() {
	tx, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "2", Quantity: 1, Price: 25000, Client: "Hôtel Terrou-Bi"})
	s.Require().NoError(err)
	s.Equal(s.clock, tx.Date)
	s.Equal("Hôtel Terrou-Bi", tx.Client)
}

func (s *EngineTestSuite) TestRecordSaleInsufficientStockMutatesNothing() {
	before := s.store.Snapshot()

	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 13, Price: 165000})
	s.ErrorIs(err, ErrInsufficientStock)
	s.Contains(err.Error(), "Stock insuffisant !")

	s.Equal(before, s.store.Snapshot())
	s.Empty(s.hook.recorded)
}

func (s *EngineTestSuite) TestRecordSaleValidation() {
	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 0, Price: 1})
	s.ErrorIs(err, ErrInvalidInput)
	s.NotEmpty(validation.GetValidationErrors(err))

	_, err = s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 1, Price: 1, Date: "14/06/2025"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.engine.RecordSale(s.ctx, SaleInput{WineID: "nope", Quantity: 1, Price: 1})
	s.ErrorIs(err, ErrWineNotFound)
}

func (s *EngineTestSuite) TestSellingTwelveBottlesDownToZero() {
	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 10, Price: 165000})
	s.Require().NoError(err)
	s.Equal(2, s.wine("4").Quantity)

	_, err = s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 2, Price: 165000})
	s.Require().NoError(err)
	s.Equal(0, s.wine("4").Quantity)

	_, err = s.engine.RecordSale(s.ctx, SaleInput{WineID: "4", Quantity: 1, Price: 165000})
	s.ErrorIs(err, ErrInsufficientStock)
}

func (s *EngineTestSuite) TestDeleteTransactionNeverRestoresStock() {
	tx, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "3", Quantity: 5, Price: 18000})
	s.Require().NoError(err)

	err = s.engine.DeleteTransaction(s.ctx, models.RoleSeller, tx.ID)
	s.ErrorIs(err, ErrPermissionDenied)
	s.Contains(err.Error(), "Seul l'Administrateur peut supprimer des transactions.")
	s.Len(s.store.Transactions(), 1)

	s.Require().NoError(s.engine.DeleteTransaction(s.ctx, models.RoleAdmin, tx.ID))
	s.Empty(s.store.Transactions())
	s.Equal(115, s.wine("3").Quantity)

	s.ErrorIs(s.engine.DeleteTransaction(s.ctx, models.RoleAdmin, tx.ID), ErrTransactionNotFound)
}

func (s *EngineTestSuite) TestDeleteWineKeepsLedger() {
	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "1", Quantity: 1, Price: 450000})
	s.Require().NoError(err)

	err = s.engine.DeleteWine(s.ctx, models.RoleSeller, "1")
	s.ErrorIs(err, ErrPermissionDenied)
	s.Contains(err.Error(), "Accès refusé")

	s.Require().NoError(s.engine.DeleteWine(s.ctx, models.RoleAdmin, "1"))
	s.Len(s.store.Wines(), 3)
	s.Len(s.store.Transactions(), 1)
	s.ErrorIs(s.engine.DeleteWine(s.ctx, models.RoleAdmin, "1"), ErrWineNotFound)
}

func (s *EngineTestSuite) TestHookFailureDoesNotUndoMutation() {
	s.hook.err = errors.New("broker down")

	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "2", Quantity: 2, Price: 25000})
	s.Require().NoError(err)
	s.Equal(58, s.wine("2").Quantity)
}

func (s *EngineTestSuite) TestHooksOutliveRequestContext() {
	var deferred []func()
	s.engine.dispatch = func(fn func()) { deferred = append(deferred, fn) }

	ctx, cancel := context.WithCancel(s.ctx)
	_, err := s.engine.RecordSale(ctx, SaleInput{WineID: "2", Quantity: 1, Price: 25000})
	s.Require().NoError(err)
	s.Empty(s.hook.recorded)

	cancel()
	s.Require().Len(deferred, 1)
	deferred[0]()

	s.Require().Len(s.hook.recorded, 1)
	s.NoError(s.hook.ctxErrs[0])
	s.True(s.hook.hasDeadline[0])
}

func (s *EngineTestSuite) TestCreateAndUpdateWine() {
	input := WineInput{
		Name:        "Sancerre Les Monts Damnés",
		Type:        "Blanc",
		Appellation: "Sancerre",
		Producer:    "Domaine Thomas",
		Quantity:    18,
		SellPrice:   32000,
		MinStock:    4,
		MaxStock:    36,
	}
	created, err := s.engine.CreateWine(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(18, created.InitialQuantity)
	s.Equal(s.clock, created.DateAdded)
	s.Len(s.store.Wines(), 5)

	s.clock = s.clock.Add(48 * time.Hour)
	input.Quantity = 30
	input.Name = "Sancerre"
	updated, err := s.engine.UpdateWine(s.ctx, created.ID, input)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal(18, updated.InitialQuantity)
	s.Equal(created.DateAdded, updated.DateAdded)
	s.Equal(30, updated.Quantity)
	s.Equal("Sancerre", updated.Name)
	s.Empty(s.store.Transactions())

	_, err = s.engine.UpdateWine(s.ctx, "missing", input)
	s.ErrorIs(err, ErrWineNotFound)
}

func (s *EngineTestSuite) TestCreateWineValidation() {
	_, err := s.engine.CreateWine(s.ctx, WineInput{Name: "X", Type: "Orange", Quantity: -1})
	s.ErrorIs(err, ErrInvalidInput)

	fields := map[string]bool{}
	for _, f := range validation.GetValidationErrors(err) {
		fields[f.Field] = true
	}
	s.True(fields["type"])
	s.True(fields["appellation"])
	s.True(fields["producer"])
	s.True(fields["quantity"])
	s.Len(s.store.Wines(), 4)
}

func (s *EngineTestSuite) TestUpdateThresholds() {
	updated, err := s.engine.UpdateThresholds(s.ctx, "2", ThresholdInput{MinStock: 20, MaxStock: 100})
	s.Require().NoError(err)
	s.Equal(20, updated.MinStock)
	s.Equal(100, updated.MaxStock)
	s.Equal(60, updated.Quantity)
}

func (s *EngineTestSuite) TestSearchWines() {
	s.Len(s.engine.SearchWines("", ""), 4)
	s.Len(s.engine.SearchWines("CHÂTEAU", ""), 1)
	s.Len(s.engine.SearchWines("champagne", ""), 1)
	s.Len(s.engine.SearchWines("cloudy", models.WineRouge), 0)
	s.Len(s.engine.SearchWines("", models.WineRose), 1)
}

func (s *EngineTestSuite) TestTransactionsNewestFirstAndSummary() {
	_, err := s.engine.RecordSale(s.ctx, SaleInput{WineID: "2", Quantity: 2, Price: 25000, Date: "2025-01-05"})
	s.Require().NoError(err)
	_, err = s.engine.RecordSale(s.ctx, SaleInput{WineID: "3", Quantity: 1, Price: 18000, Date: "2025-03-05"})
	s.Require().NoError(err)
	_, err = s.engine.Adjust(s.ctx, "1", -1, models.FlowLoss)
	s.Require().NoError(err)

	txs := s.engine.Transactions()
	s.Require().Len(txs, 3)
	s.Equal(models.FlowLoss, txs[0].Type)
	s.Equal("3", txs[1].WineID)
	s.Equal("2", txs[2].WineID)

	summary := s.engine.Summary()
	s.Equal(68000, summary.Revenue)
	s.Equal(3, summary.BottlesSold)
	s.Equal(450000, summary.LossValue)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
