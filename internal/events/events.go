package events

import (
	"time"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

// StockMovementEvent is published for every recorded transaction.
type StockMovementEvent struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	TransactionID string                 `json:"transaction_id"`
	WineID        string                 `json:"wine_id"`
	WineName      string                 `json:"wine_name"`
	WineType      models.WineType        `json:"wine_type"`
	FlowType      models.TransactionType `json:"flow_type"`
	Quantity      int                    `json:"quantity"`
	UnitPrice     int                    `json:"unit_price"`
	Total         int                    `json:"total"`
	Client        string                 `json:"client"`
	SellerName    string                 `json:"seller_name"`
	OccurredAt    time.Time              `json:"occurred_at"`
	PublishedAt   time.Time              `json:"published_at"`
}

// EventTypeStockMovement tags stock movement events.
const EventTypeStockMovement = "stock.movement"

// NewStockMovementEvent maps a transaction onto its event.
func NewStockMovementEvent(eventID string, tx models.Transaction, publishedAt time.Time) StockMovementEvent {
	return StockMovementEvent{
		EventID:       eventID,
		EventType:     EventTypeStockMovement,
		TransactionID: tx.ID,
		WineID:        tx.WineID,
		WineName:      tx.WineName,
		WineType:      tx.WineType,
		FlowType:      tx.Type,
		Quantity:      tx.Quantity,
		UnitPrice:     tx.Price,
		Total:         tx.Total,
		Client:        tx.Client,
		SellerName:    tx.SellerName,
		OccurredAt:    tx.Date,
		PublishedAt:   publishedAt,
	}
}
