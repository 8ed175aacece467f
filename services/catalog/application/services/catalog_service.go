package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
	catalogdomain "github.com/ghuser/gamercart/services/catalog/domain"
	"github.com/ghuser/gamercart/services/catalog/domain/models"
	"github.com/ghuser/gamercart/services/catalog/domain/repositories"
)

const cacheWarmTimeout = 2 * time.Second

// CatalogService serves the public catalog and the admin product operations.
// Product events are published by the repository (outbox pattern); the cache
// entry is also dropped here so the API does not depend on the worker for
// read-your-writes.
type CatalogService struct {
	repo    repositories.ProductRepository
	cache   *pkgcache.ProductCache
	metrics *telemetry.StorefrontMetrics
	log     logger.Logger
}

// NewCatalogService wires a CatalogService. productCache and metrics may be nil.
func NewCatalogService(repo repositories.ProductRepository, productCache *pkgcache.ProductCache, metrics *telemetry.StorefrontMetrics, log logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: productCache, metrics: metrics, log: log}
}

// Featured returns the homepage products. It never fails: a query error or an
// empty catalog yields the sample catalog, marked as SourceFallback.
func (s *CatalogService) Featured(ctx context.Context) models.FeaturedResult {
	products, err := s.repo.Featured(ctx, models.FeaturedLimit)
	if err != nil {
		s.log.ErrorContext(ctx, "featured products unavailable, using sample catalog", "error", err)
		s.metrics.HomepageFallback(ctx)
		return models.Fallback(err)
	}
	if len(products) == 0 {
		s.log.WarnContext(ctx, "no active products, using sample catalog")
		s.metrics.HomepageFallback(ctx)
		return models.Fallback(nil)
	}
	if len(products) > models.FeaturedLimit {
		products = products[:models.FeaturedLimit]
	}
	return models.Live(products)
}

// List returns active products matching filter.
func (s *CatalogService) List(ctx context.Context, filter models.Filter) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Brands returns the brand filter options.
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.repo.Brands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// Get returns an active product using a read-through cache:
//  1. Check Redis first.
//  2. On a miss or cache error, query MySQL.
//  3. Warm the cache in the background with the MySQL result.
//
// Inactive products are reported as ErrProductNotFound.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if !cached.Active {
				return nil, catalogdomain.ErrProductNotFound
			}
			return fromCache(cached), nil
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if s.cache != nil {
		go s.warm(toCache(p))
	}

	if !p.Active {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) warm(p *pkgcache.CachedProduct) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWarmTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warn("product cache warm failed", "product_id", p.ID, "error", err)
	}
}

// ListAll returns every product for the admin area.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// ProductInput is the admin form for a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Brand       string
}

// Create validates and stores a new active product.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := models.NewProduct(in.Name, in.Description, in.Price, in.Image, in.Brand)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Toggle flips a product's visibility and returns the new state.
func (s *CatalogService) Toggle(ctx context.Context, id int64) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get product: %w", err)
	}
	active := !p.Active
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return false, fmt.Errorf("toggle product: %w", err)
	}
	s.Invalidate(ctx, id)
	return active, nil
}

// Invalidate drops a product's cache entry. Failures are logged only; the
// entry expires on its own.
func (s *CatalogService) Invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "product cache invalidation failed", "product_id", id, "error", err)
	}
}

// Names returns product names by id, for labelling rankings.
func (s *CatalogService) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	products, err := s.repo.GetManyByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product names: %w", err)
	}
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Stats returns the product counters for the admin dashboard.
func (s *CatalogService) Stats(ctx context.Context) (repositories.Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return st, fmt.Errorf("product stats: %w", err)
	}
	return st, nil
}

func toCache(p *models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Brand:       p.Brand,
		Active:      p.Active,
	}
}

func fromCache(c *pkgcache.CachedProduct) *models.Product {
	return &models.Product{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       models.CoercePrice(c.Price),
		Image:       c.Image,
		Brand:       c.Brand,
		Active:      c.Active,
	}
}
