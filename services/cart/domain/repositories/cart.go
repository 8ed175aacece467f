package repositories

import (
	"context"

	"github.com/ghuser/gamercart/services/cart/domain/models"
)

// CartRepository is the persistence interface for cart lines.
type CartRepository interface {
	// CountItems sums the quantities in the user's cart. An empty cart is 0.
	CountItems(ctx context.Context, userID int64) (int64, error)

	// Lines returns the user's lines joined with their active products.
	Lines(ctx context.Context, userID int64) ([]models.Line, error)

	// Add adds qty of an active product, merging with an existing line.
	// Returns ErrProductUnavailable for unknown or inactive products.
	Add(ctx context.Context, userID, productID int64, qty int) error

	// SetQuantity overwrites a line's quantity. Returns ErrLineNotFound.
	SetQuantity(ctx context.Context, userID, productID int64, qty int) error

	// Remove deletes a line. Removing a missing line is not an error.
	Remove(ctx context.Context, userID, productID int64) error
}
