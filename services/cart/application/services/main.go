package services

import (
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/services/cart/infrastructure/persistence/mysql"
)

// Services is the application-layer service container for the cart.
type Services struct {
	Cart *CartService
}

// New wires the cart services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Cart: NewCartService(mysql.NewCartRepository(a.Db)),
	}
}
