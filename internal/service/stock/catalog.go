package stock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/state"
	"github.com/mamadbah2/vinstock/internal/validation"
)

// WineInput is the wine form shared by creation and edition.
type WineInput struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,winetype"`
	Appellation string `json:"appellation" validate:"required"`
	Vintage     string `json:"vintage"`
	Producer    string `json:"producer" validate:"required"`
	Region      string `json:"region"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	SellPrice   int    `json:"sellPrice" validate:"gte=0"`
	MinStock    int    `json:"minStock" validate:"gte=0"`
	MaxStock    int    `json:"maxStock" validate:"gte=0"`
	Location    string `json:"location"`
	Supplier    string `json:"supplier"`
}

func (in WineInput) apply(w *models.Wine) {
	w.Name = in.Name
	w.Type = models.WineType(in.Type)
	w.Appellation = in.Appellation
	w.Vintage = in.Vintage
	w.Producer = in.Producer
	w.Region = in.Region
	w.Quantity = in.Quantity
	w.SellPrice = in.SellPrice
	w.MinStock = in.MinStock
	w.MaxStock = in.MaxStock
	w.Location = in.Location
	w.Supplier = in.Supplier
}

// CreateWine adds a reference. Its initial quantity is the entered stock.
func (e *Engine) CreateWine(ctx context.Context, in WineInput) (models.Wine, error) {
	if err := validation.Check(in); err != nil {
		return models.Wine{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	w := models.Wine{ID: e.newID(), DateAdded: e.now()}
	in.apply(&w)
	w.InitialQuantity = w.Quantity

	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		d.Wines = append(d.Wines, w)
		d.Mark(state.CollectionWines)
		return nil
	})
	if err != nil {
		return models.Wine{}, fmt.Errorf("create wine: %w", err)
	}

	e.logger.Info("wine created", zap.String("wine_id", w.ID), zap.String("name", w.Name))
	return w, nil
}

// UpdateWine replaces the editable fields of a reference. The id, the date
// added and the initial quantity are kept, and no transaction is logged.
func (e *Engine) UpdateWine(ctx context.Context, id string, in WineInput) (models.Wine, error) {
	if err := validation.Check(in); err != nil {
		return models.Wine{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var updated models.Wine
	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		idx := indexOfWine(d.Wines, id)
		if idx < 0 {
			return ErrWineNotFound
		}
		in.apply(&d.Wines[idx])
		updated = d.Wines[idx]
		d.Mark(state.CollectionWines)
		return nil
	})
	if err != nil {
		return models.Wine{}, fmt.Errorf("update wine %s: %w", id, err)
	}

	e.logger.Info("wine updated", zap.String("wine_id", id))
	return updated, nil
}

// ThresholdInput carries the alert floor and ceiling of a wine.
type ThresholdInput struct {
	MinStock int `json:"minStock" validate:"gte=0"`
	MaxStock int `json:"maxStock" validate:"gte=0"`
}

// UpdateThresholds changes only the min and max stock of a wine.
func (e *Engine) UpdateThresholds(ctx context.Context, id string, in ThresholdInput) (models.Wine, error) {
	if err := validation.Check(in); err != nil {
		return models.Wine{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var updated models.Wine
	err := e.store.Mutate(ctx, func(d *state.Draft) error {
		idx := indexOfWine(d.Wines, id)
		if idx < 0 {
			return ErrWineNotFound
		}
		d.Wines[idx].MinStock = in.MinStock
		d.Wines[idx].MaxStock = in.MaxStock
		updated = d.Wines[idx]
		d.Mark(state.CollectionWines)
		return nil
	})
	if err != nil {
		return models.Wine{}, fmt.Errorf("update thresholds of %s: %w", id, err)
	}

	e.logger.Info("thresholds updated",
		zap.String("wine_id", id),
		zap.Int("min_stock", in.MinStock),
		zap.Int("max_stock", in.MaxStock))
	return updated, nil
}
