package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/state"
)

// Notifier delivers a text alert to the shop manager.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Watcher sends a notification when wines run out of stock.
type Watcher struct {
	notifier Notifier
	timeout  time.Duration
	dispatch func(func())
	logger   *zap.Logger
}

// NewWatcher builds a watcher. Notifications are sent on their own goroutine.
func NewWatcher(notifier Notifier, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		notifier: notifier,
		timeout:  10 * time.Second,
		dispatch: func(fn func()) { go fn() },
		logger:   logger,
	}
}

// Attach subscribes the watcher to store changes and returns the unsubscribe func.
func (w *Watcher) Attach(store *state.Store) func() {
	return store.Subscribe(w.onChange)
}

func (w *Watcher) onChange(change state.Change) {
	if !change.Touches(state.CollectionWines) {
		return
	}

	emptied := NewlyStockOut(change.Before.Wines, change.After.Wines)
	if len(emptied) == 0 {
		return
	}

	message := StockOutMessage(emptied)
	w.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		if err := w.notifier.Notify(ctx, message); err != nil {
			w.logger.Error("failed to send stock-out notification", zap.Error(err))
			return
		}
		w.logger.Info("stock-out notification sent", zap.Int("wines", len(emptied)))
	})
}

// NewlyStockOut returns the wines at zero in after that were stocked in before.
func NewlyStockOut(before, after []models.Wine) []models.Wine {
	previous := make(map[string]int, len(before))
	for _, w := range before {
		previous[w.ID] = w.Quantity
	}

	var emptied []models.Wine
	for _, w := range after {
		if !w.IsStockOut() {
			continue
		}
		if qty, ok := previous[w.ID]; ok && qty > 0 {
			emptied = append(emptied, w)
		}
	}
	return emptied
}

// StockOutMessage formats the notification text.
func StockOutMessage(wines []models.Wine) string {
	var b strings.Builder
	b.WriteString("⚠️ Rupture de stock\n")
	for _, w := range wines {
		fmt.Fprintf(&b, "- %s (%s)", w.Name, w.Type)
		if w.Location != "" {
			fmt.Fprintf(&b, " · %s", w.Location)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
