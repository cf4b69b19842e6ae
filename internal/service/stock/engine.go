package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/state"
	"github.com/mamadbah2/vinstock/internal/validation"
)

var (
	ErrWineNotFound        = errors.New("wine not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientStock   = errors.New("Stock insuffisant !")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
)

const (
	deleteWineDenied        = "Accès refusé. Seul un Administrateur peut supprimer des références."
	deleteTransactionDenied = "Seul l'Administrateur peut supprimer des transactions."
)

// PermissionError carries the message shown to a role refused an action.
type PermissionError struct {
	Role    models.Role
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrPermissionDenied.
func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// TransactionHook observes every recorded transaction once it is persisted.
type TransactionHook interface {
	TransactionRecorded(ctx context.Context, tx models.Transaction) error
}

// DefaultHookTimeout bounds the post-commit hooks of one transaction.
const DefaultHookTimeout = 10 * time.Second

// Engine applies sales, adjustments and catalog edits to the store.
type Engine struct {
	store       *state.Store
	hooks       []TransactionHook
	hookTimeout time.Duration
	dispatch    func(func())
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// NewEngine wires a stock engine over a loaded store.
func NewEngine(store *state.Store, logger *zap.Logger, hooks ...TransactionHook) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:       store,
		hooks:       hooks,
		hookTimeout: DefaultHookTimeout,
		dispatch:    func(fn func()) { go fn() },
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// SetClock overrides the engine clock.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// AddHook registers another post-commit transaction hook.
func (e *Engine) AddHook(hook TransactionHook) {
	if hook != nil {
		e.hooks = append(e.hooks, hook)
	}
}

// Adjust moves a wine's stock by a signed amount, clamping at zero, and logs
// one transaction for the absolute amount.
func (e *Engine) Adjust(ctx context.Context, wineID string, amount int, flow models.TransactionType) (models.Transaction, error) {
	if amount == 0 {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Single("amount", "nonzero", "amount must not be zero"))
	}
	if !flow.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Single("type", "flowtype", "type must be one of Vente, Perte, Casse, Péremption"))
	}

	qty := amount
	if qty < 0 {
		qty = -qty
	}

	var tx models.Transaction
	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		idx := indexOfWine(d.Wines, wineID)
		if idx < 0 {
			return ErrWineNotFound
		}

		w := &d.Wines[idx]
		w.Quantity += amount
		if w.Quantity < 0 {
			w.Quantity = 0
		}

		client := models.AdjustmentClient
		if flow.IsSale() {
			client = models.CounterClient
		}

		tx = models.Transaction{
			ID:         e.newID(),
			WineID:     w.ID,
			WineName:   w.Name,
			WineType:   w.Type,
			Quantity:   qty,
			Price:      w.SellPrice,
			Client:     client,
			Date:       e.now(),
			Type:       flow,
			Total:      qty * w.SellPrice,
			SellerName: models.AdjustmentSeller,
		}
		d.Transactions = append(d.Transactions, tx)
		d.Mark(state.CollectionWines, state.CollectionSales)
		return nil
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("adjust wine %s: %w", wineID, err)
	}

	e.logger.Info("stock adjusted",
		zap.String("wine_id", wineID),
		zap.Int("amount", amount),
		zap.String("type", string(flow)))
	e.fireHooks(ctx, tx)
	return tx, nil
}

// SaleInput is the sale form.
type SaleInput struct {
	WineID     string `json:"wineId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Price      int    `json:"price" validate:"gte=0"`
	Client     string `json:"client"`
	Date       string `json:"date" validate:"omitempty,saledate"`
	Type       string `json:"type" validate:"omitempty,flowtype"`
	SellerName string `json:"-"`
}

// RecordSale decrements stock and appends the transaction. A quantity above
// the current stock is rejected without any change.
func (e *Engine) RecordSale(ctx context.Context, in SaleInput) (models.Transaction, error) {
	if err := validation.Check(in); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	flow := models.FlowSale
	if in.Type != "" {
		flow = models.TransactionType(in.Type)
	}

	date := e.now()
	if in.Date != "" {
		parsed, err := validation.ParseSaleDate(in.Date)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		date = parsed
	}

	client := in.Client
	if client == "" {
		client = models.CounterClient
	}

	var tx models.Transaction
	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		idx := indexOfWine(d.Wines, in.WineID)
		if idx < 0 {
			return ErrWineNotFound
		}

		w := &d.Wines[idx]
		if in.Quantity > w.Quantity {
			return ErrInsufficientStock
		}
		w.Quantity -= in.Quantity

		tx = models.Transaction{
			ID:         e.newID(),
			WineID:     w.ID,
			WineName:   w.Name,
			WineType:   w.Type,
			Quantity:   in.Quantity,
			Price:      in.Price,
			Client:     client,
			Date:       date,
			Type:       flow,
			Total:      in.Quantity * in.Price,
			SellerName: in.SellerName,
		}
		d.Transactions = append(d.Transactions, tx)
		d.Mark(state.CollectionWines, state.CollectionSales)
		return nil
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("record sale of %s: %w", in.WineID, err)
	}

	e.logger.Info("sale recorded",
		zap.String("transaction_id", tx.ID),
		zap.String("wine_id", tx.WineID),
		zap.Int("quantity", tx.Quantity),
		zap.Int("total", tx.Total))
	e.fireHooks(ctx, tx)
	return tx, nil
}

// DeleteTransaction removes a ledger entry. Stock is never restored.
func (e *Engine) DeleteTransaction(ctx context.Context, role models.Role, id string) error {
	if !role.CanDelete() {
		return &PermissionError{Role: role, Message: deleteTransactionDenied}
	}

	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		for i, tx := range d.Transactions {
			if tx.ID == id {
				d.Transactions = append(d.Transactions[:i], d.Transactions[i+1:]...)
				d.Mark(state.CollectionSales)
				return nil
			}
		}
		return ErrTransactionNotFound
	})
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	e.logger.Info("transaction deleted", zap.String("transaction_id", id))
	return nil
}

// DeleteWine removes a reference. Its transactions stay in the ledger.
func (e *Engine) DeleteWine(ctx context.Context, role models.Role, id string) error {
	if !role.CanDelete() {
		return &PermissionError{Role: role, Message: deleteWineDenied}
	}

	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		idx := indexOfWine(d.Wines, id)
		if idx < 0 {
			return ErrWineNotFound
		}
		d.Wines = append(d.Wines[:idx], d.Wines[idx+1:]...)
		d.Mark(state.CollectionWines)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete wine %s: %w", id, err)
	}

	e.logger.Info("wine deleted", zap.String("wine_id", id))
	return nil
}

// SearchWines filters the inventory on name, appellation or producer and an
// optional exact type.
func (e *Engine) SearchWines(query string, wineType models.WineType) []models.Wine {
	needle := strings.ToLower(query)

	matches := []models.Wine{}
	for _, w := range e.store.Wines() {
		if wineType != "" && w.Type != wineType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(w.Name), needle) &&
			!strings.Contains(strings.ToLower(w.Appellation), needle) &&
			!strings.Contains(strings.ToLower(w.Producer), needle) {
			continue
		}
		matches = append(matches, w)
	}
	return matches
}

// Transactions returns the ledger, newest first.
func (e *Engine) Transactions() []models.Transaction {
	txs := e.store.Transactions()
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs
}

// Summary totals the ledger.
type Summary struct {
	Revenue     int `json:"revenue"`
	BottlesSold int `json:"bottlesSold"`
	LossValue   int `json:"lossValue"`
}

// Summary computes the revenue, bottles sold and loss value of the ledger.
func (e *Engine) Summary() Summary {
	return Summarize(e.store.Transactions())
}

// Summarize computes a Summary over txs.
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		if tx.Type.IsSale() {
			s.Revenue += tx.Total
			s.BottlesSold += tx.Quantity
			continue
		}
		s.LossValue += tx.Total
	}
	return s
}

// fireHooks runs the hooks off the caller's goroutine. They keep the values
// of ctx but not its cancellation, and share their own deadline.
func (e *Engine) fireHooks(ctx context.Context, tx models.Transaction) {
	if len(e.hooks) == 0 {
		return
	}
	hooks := append([]TransactionHook(nil), e.hooks...)
	base := context.WithoutCancel(ctx)

	e.dispatch(func() {
		hookCtx, cancel := context.WithTimeout(base, e.hookTimeout)
		defer cancel()

		for _, hook := range hooks {
			if err := hook.TransactionRecorded(hookCtx, tx); err != nil {
				e.logger.Error("transaction hook failed",
					zap.String("transaction_id", tx.ID),
					zap.Error(err))
			}
		}
	})
}

func indexOfWine(wines []models.Wine, id string) int {
	for i, w := range wines {
		if w.ID == id {
			return i
		}
	}
	return -1
}
