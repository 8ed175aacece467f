package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/gamercart/pkg/events"
	"github.com/ghuser/gamercart/pkg/logger"
	catalogEvents "github.com/ghuser/gamercart/services/catalog/domain/events"
	orderEvents "github.com/ghuser/gamercart/services/orders/domain/events"
)

type productCacheDeleter interface {
	Delete(ctx context.Context, id int64) error
}

type rankingRecorder interface {
	RecordOnce(ctx context.Context, eventID string, unitsByProduct map[int64]int64) (bool, error)
}

// handleProductChanged drops the product's cache entry so the next detail
// page reads MySQL. Deleting a missing key is a no-op, so redelivery is safe.
func handleProductChanged(productCache productCacheDeleter, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[catalogEvents.ProductChangedEvent](msg)
		if err != nil {
			return err
		}
		if err := productCache.Delete(ctx, evt.ProductID); err != nil {
			return fmt.Errorf("invalidate product %d: %w", evt.ProductID, err)
		}
		log.InfoContext(ctx, "product cache invalidated", "product_id", evt.ProductID, "change", evt.Change)
		return nil
	}
}

// handleOrderPlaced adds the order's units to the best-seller ranking, once
// per event id.
func handleOrderPlaced(ranking rankingRecorder, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[orderEvents.OrderPlacedEvent](msg)
		if err != nil {
			return err
		}
		recorded, err := ranking.RecordOnce(ctx, evt.EventID.String(), evt.UnitsByProduct())
		if err != nil {
			return fmt.Errorf("record order %d: %w", evt.OrderID, err)
		}
		if !recorded {
			log.InfoContext(ctx, "order event already counted", "order_id", evt.OrderID, "event_id", evt.EventID)
			return nil
		}
		log.InfoContext(ctx, "best sellers updated", "order_id", evt.OrderID, "items", len(evt.Items))
		return nil
	}
}
