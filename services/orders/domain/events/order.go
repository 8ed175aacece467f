package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/gamercart/services/orders/domain/models"
)

// TopicOrderPlaced is published in the checkout transaction. The worker feeds
// the best-seller ranking from it.
const TopicOrderPlaced = "order.placed"

// PlacedItem is one product and the units bought.
type PlacedItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderPlacedEvent is the payload of TopicOrderPlaced.
type OrderPlacedEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	Version    int          `json:"version"`
	OrderID    int64        `json:"order_id"`
	Reference  string       `json:"reference"`
	UserID     int64        `json:"user_id"`
	Total      string       `json:"total"`
	Items      []PlacedItem `json:"items"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewOrderPlacedEvent describes a persisted order.
func NewOrderPlacedEvent(o *models.Order) OrderPlacedEvent {
	items := make([]PlacedItem, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = PlacedItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return OrderPlacedEvent{
		EventID:    uuid.New(),
		Version:    1,
		OrderID:    o.ID,
		Reference:  o.Reference,
		UserID:     o.UserID,
		Total:      o.Total.StringFixed(2),
		Items:      items,
		OccurredAt: o.CreatedAt,
	}
}

// UnitsByProduct totals the units per product, merging repeated products.
func (e OrderPlacedEvent) UnitsByProduct() map[int64]int64 {
	units := make(map[int64]int64, len(e.Items))
	for _, it := range e.Items {
		units[it.ProductID] += int64(it.Quantity)
	}
	return units
}
