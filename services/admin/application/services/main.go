package services

import (
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/cache"
	catalogsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
	ordersvcs "github.com/ghuser/gamercart/services/orders/application/services"
)

// Services is the application-layer service container for the admin area.
type Services struct {
	Admin *AdminService
}

// New wires the admin service on top of the catalog and orders services.
func New(a *app.Application) *Services {
	var ranking Ranking
	if a.Redis != nil {
		ranking = cache.NewBestSellers(a.Redis)
	}
	return &Services{
		Admin: NewAdminService(
			catalogsvcs.New(a).Catalog,
			ordersvcs.New(a).Orders,
			ranking,
			a.Logger,
		),
	}
}
