package repositories

import (
	"context"

	"github.com/ghuser/gamercart/services/catalog/domain/models"
)

// Stats are the catalog counters shown on the admin dashboard.
type Stats struct {
	Total  int64
	Active int64
}

// ProductRepository is the persistence interface for products.
// The domain layer owns this interface; infrastructure implements it.
type ProductRepository interface {
	// Featured returns up to limit active products for the homepage.
	Featured(ctx context.Context, limit int) ([]models.Product, error)

	// List returns active products matching filter, newest first.
	List(ctx context.Context, filter models.Filter) ([]models.Product, error)

	// ListAll returns every product, active or not, for the admin area.
	ListAll(ctx context.Context) ([]models.Product, error)

	// GetByID returns the product regardless of its active flag.
	GetByID(ctx context.Context, id int64) (*models.Product, error)

	// GetManyByID returns the products with the given ids, in no order.
	GetManyByID(ctx context.Context, ids []int64) ([]models.Product, error)

	// Brands returns the distinct brands of active products.
	Brands(ctx context.Context) ([]string, error)

	// Create inserts p, sets p.ID and publishes a product change event.
	Create(ctx context.Context, p *models.Product) error

	// SetActive changes visibility and publishes a product change event.
	SetActive(ctx context.Context, id int64, active bool) error

	Stats(ctx context.Context) (Stats, error)
}
