package services

import (
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/services/catalog/infrastructure/persistence/mysql"
)

// Services is the application-layer service container for the catalog.
type Services struct {
	Catalog *CatalogService
}

// New wires the catalog services with infrastructure from the Application
// container. The product cache is skipped when Redis is unavailable.
func New(a *app.Application) *Services {
	repo := mysql.NewProductRepository(a.Db, a.EventBus)
	var productCache *cache.ProductCache
	if a.Redis != nil {
		productCache = cache.NewProductCache(a.Redis)
	}
	return &Services{
		Catalog: NewCatalogService(repo, productCache, a.Metrics, a.Logger),
	}
}
