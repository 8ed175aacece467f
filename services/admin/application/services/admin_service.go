package services

import (
	"context"
	"fmt"

	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/logger"
	catalogsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
	catalogmodels "github.com/ghuser/gamercart/services/catalog/domain/models"
	catalogrepos "github.com/ghuser/gamercart/services/catalog/domain/repositories"
	ordermodels "github.com/ghuser/gamercart/services/orders/domain/models"
	orderrepos "github.com/ghuser/gamercart/services/orders/domain/repositories"
)

// TopSellersLimit is the size of the dashboard ranking.
const TopSellersLimit = 5

// Ranking sources shown on the dashboard.
const (
	RankingRedis = "redis"
	RankingSQL   = "sql"
)

// Products is the catalog surface the admin area uses.
type Products interface {
	ListAll(ctx context.Context) ([]catalogmodels.Product, error)
	Create(ctx context.Context, in catalogsvcs.ProductInput) (*catalogmodels.Product, error)
	Toggle(ctx context.Context, id int64) (bool, error)
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
	Stats(ctx context.Context) (catalogrepos.Stats, error)
}

// Orders is the orders surface the admin area uses.
type Orders interface {
	Recent(ctx context.Context) ([]ordermodels.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	Count(ctx context.Context) (int64, error)
	TopProducts(ctx context.Context, limit int) ([]orderrepos.ProductSales, error)
}

// Ranking reads the best-seller ranking kept by the worker.
type Ranking interface {
	Top(ctx context.Context, n int) ([]cache.RankedProduct, error)
}

// TopSeller is one dashboard ranking row.
type TopSeller struct {
	ProductID int64
	Name      string
	Units     int64
}

// Dashboard is the data of GET /admin.
type Dashboard struct {
	Products       int64
	ActiveProducts int64
	Orders         int64
	TopSellers     []TopSeller
	RankingSource  string
}

// AdminService composes the catalog and orders services for the back office.
type AdminService struct {
	products Products
	orders   Orders
	ranking  Ranking
	log      logger.Logger
}

// NewAdminService wires an AdminService. ranking may be nil, in which case
// the ranking is computed in SQL.
func NewAdminService(products Products, orders Orders, ranking Ranking, log logger.Logger) *AdminService {
	return &AdminService{products: products, orders: orders, ranking: ranking, log: log}
}

// Dashboard gathers the counters and the best-seller ranking.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.products.Stats(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	top, source, err := s.topSellers(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Products:       stats.Total,
		ActiveProducts: stats.Active,
		Orders:         orders,
		TopSellers:     top,
		RankingSource:  source,
	}, nil
}

// topSellers prefers the Redis ranking and falls back to SQL when Redis is
// not configured or fails.
func (s *AdminService) topSellers(ctx context.Context) ([]TopSeller, string, error) {
	var (
		rows   []TopSeller
		source = RankingSQL
	)
	if s.ranking != nil {
		ranked, err := s.ranking.Top(ctx, TopSellersLimit)
		if err == nil {
			source = RankingRedis
			for _, r := range ranked {
				rows = append(rows, TopSeller{ProductID: r.ProductID, Units: r.Units})
			}
		} else {
			s.log.WarnContext(ctx, "best-seller ranking unavailable, computing in SQL", "error", err)
		}
	}
	if source == RankingSQL {
		sales, err := s.orders.TopProducts(ctx, TopSellersLimit)
		if err != nil {
			return nil, "", err
		}
		for _, p := range sales {
			rows = append(rows, TopSeller{ProductID: p.ProductID, Units: p.Units})
		}
	}
	if len(rows) == 0 {
		return nil, source, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	names, err := s.products.Names(ctx, ids)
	if err != nil {
		return nil, "", err
	}
	for i := range rows {
		rows[i].Name = names[rows[i].ProductID]
		if rows[i].Name == "" {
			rows[i].Name = fmt.Sprintf("Producto #%d", rows[i].ProductID)
		}
	}
	return rows, source, nil
}

// Products returns every product, active or not.
func (s *AdminService) Products(ctx context.Context) ([]catalogmodels.Product, error) {
	return s.products.ListAll(ctx)
}

// CreateProduct stores a new product.
func (s *AdminService) CreateProduct(ctx context.Context, in catalogsvcs.ProductInput) (*catalogmodels.Product, error) {
	p, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "product created", "product_id", p.ID)
	return p, nil
}

// ToggleProduct flips a product's visibility.
func (s *AdminService) ToggleProduct(ctx context.Context, id int64) error {
	active, err := s.products.Toggle(ctx, id)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "product visibility changed", "product_id", id, "active", active)
	return nil
}

// Orders returns the latest orders of all customers.
func (s *AdminService) Orders(ctx context.Context) ([]ordermodels.Order, error) {
	return s.orders.Recent(ctx)
}

// UpdateOrderStatus applies a status change.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}
