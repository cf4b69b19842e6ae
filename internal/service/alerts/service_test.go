package alerts

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/repository/memory"
	"github.com/mamadbah2/vinstock/internal/service/state"
	"github.com/mamadbah2/vinstock/internal/validation"
)

func newLoadedStore(t *testing.T) *state.Store {
	t.Helper()
	store := state.NewStore(memory.NewStore(), "", nil)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func TestCreateRuleDefaultsColor(t *testing.T) {
	svc := NewService(newLoadedStore(t), nil)
	svc.newID = func() string { return "rule-1" }

	rule, err := svc.CreateRule(context.Background(), RuleInput{
		Name:     "Stock bas",
		Field:    "quantity",
		Operator: "less",
		Value:    models.NumberValue(20),
		Message:  "Recommander",
	})
	require.NoError(t, err)
	assert.Equal(t, "rule-1", rule.ID)
	assert.Equal(t, models.DefaultRuleColor, rule.Color)
	assert.Len(t, svc.Rules(), 1)

	current := svc.Current()
	require.Len(t, current.Custom, 1)
	assert.Equal(t, "4", current.Custom[0].Wine.ID)
}

func TestCreateRuleRejectsMalformedInput(t *testing.T) {
	svc := NewService(newLoadedStore(t), nil)
	ctx := context.Background()

	inputs := []RuleInput{
		{Field: "quantity", Operator: "less", Value: models.NumberValue(1), Message: "m"},
		{Name: "n", Field: "colour", Operator: "less", Value: models.NumberValue(1), Message: "m"},
		{Name: "n", Field: "quantity", Operator: "between", Value: models.NumberValue(1), Message: "m"},
		{Name: "n", Field: "quantity", Operator: "less", Value: models.NumberValue(math.NaN()), Message: "m"},
		{Name: "n", Field: "region", Operator: "equal", Value: models.TextValue(""), Message: "m"},
		{Name: "n", Field: "quantity", Operator: "less", Value: models.NumberValue(1)},
	}
	for _, in := range inputs {
		_, err := svc.CreateRule(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidRule)
		assert.NotEmpty(t, validation.GetValidationErrors(err))
	}
	assert.Empty(t, svc.Rules())
}

func TestCreateRuleAcceptsZeroValue(t *testing.T) {
	store := newLoadedStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	for _, value := range []models.RuleValue{models.NumberValue(0), models.TextValue("0")} {
		_, err := svc.CreateRule(ctx, RuleInput{
			Name:     "Rupture",
			Field:    "quantity",
			Operator: "equal",
			Value:    value,
			Message:  "Plus une bouteille",
		})
		require.NoError(t, err)
	}
	require.Len(t, svc.Rules(), 2)

	assert.Empty(t, svc.Current().Custom)

	require.NoError(t, store.Mutate(ctx, func(d *state.Draft) error {
		d.Wines[1].Quantity = 0
		d.Mark(state.CollectionWines)
		return nil
	}))
	current := svc.Current()
	require.Len(t, current.Custom, 2)
	assert.Equal(t, "2", current.Custom[0].Wine.ID)
	assert.Equal(t, "2", current.Custom[1].Wine.ID)
}

func TestDeleteRule(t *testing.T) {
	svc := NewService(newLoadedStore(t), nil)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, RuleInput{Name: "n", Field: "region", Operator: "contains", Value: models.TextValue("bord"), Message: "m"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRule(ctx, rule.ID))
	assert.Empty(t, svc.Rules())
	assert.ErrorIs(t, svc.DeleteRule(ctx, rule.ID), ErrRuleNotFound)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func TestWatcherNotifiesNewStockOuts(t *testing.T) {
	store := newLoadedStore(t)
	notifier := &recordingNotifier{}
	watcher := NewWatcher(notifier, nil)
	watcher.dispatch = func(fn func()) { fn() }
	detach := watcher.Attach(store)
	defer detach()

	ctx := context.Background()
	setQty := func(id string, qty int) {
		require.NoError(t, store.Mutate(ctx, func(d *state.Draft) error {
			for i := range d.Wines {
				if d.Wines[i].ID == id {
					d.Wines[i].Quantity = qty
				}
			}
			d.Mark(state.CollectionWines)
			return nil
		}))
	}

	setQty("4", 2)
	assert.Empty(t, notifier.messages)

	setQty("4", 0)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Dom Pérignon Vintage")

	setQty("4", 0)
	assert.Len(t, notifier.messages, 1)
}

func TestNewlyStockOutIgnoresNewWines(t *testing.T) {
	before := []models.Wine{{ID: "a", Quantity: 1}}
	after := []models.Wine{{ID: "a", Quantity: 0}, {ID: "b", Quantity: 0}}
	emptied := NewlyStockOut(before, after)
	require.Len(t, emptied, 1)
	assert.Equal(t, "a", emptied[0].ID)
}
