package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicProductChanged is published whenever an admin creates a product or
// changes its visibility. The worker drops the product's cache entry.
const TopicProductChanged = "catalog.product_changed"

// Product change kinds.
const (
	ChangeCreated     = "created"
	ChangeActivated   = "activated"
	ChangeDeactivated = "deactivated"
)

// ProductChangedEvent is the payload of TopicProductChanged.
type ProductChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ProductID  int64     `json:"product_id"`
	Change     string    `json:"change"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductChangedEvent stamps a change with a fresh event id.
func NewProductChangedEvent(productID int64, change string) ProductChangedEvent {
	return ProductChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ProductID:  productID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	}
}
