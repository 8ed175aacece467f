package repositories

import (
	"context"

	"github.com/ghuser/gamercart/services/orders/domain/models"
)

// ProductSales is the number of units sold of one product.
type ProductSales struct {
	ProductID int64
	Units     int64
}

// OrderRepository is the persistence interface for orders.
type OrderRepository interface {
	// Checkout turns the user's cart into a pending order in one transaction:
	// the order and its lines are stored at current prices, the cart is
	// emptied and an order placed event is published.
	// Returns ErrEmptyCart when no active product is in the cart.
	Checkout(ctx context.Context, userID int64) (*models.Order, error)

	// ListByUser returns the user's orders, newest first, without lines.
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)

	// GetForUser returns one of the user's orders with its lines.
	GetForUser(ctx context.Context, userID, orderID int64) (*models.Order, error)

	// ListRecent returns the latest orders of all users with customer names.
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)

	// UpdateStatus moves an order to a new status if the transition is allowed.
	UpdateStatus(ctx context.Context, orderID int64, to models.Status) error

	Count(ctx context.Context) (int64, error)

	// TopProducts ranks products by units sold in non-cancelled orders.
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}
