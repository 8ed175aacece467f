package services

import (
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/services/orders/infrastructure/persistence/mysql"
)

// Services is the application-layer service container for orders.
type Services struct {
	Orders *OrderService
}

// New wires the order services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Orders: NewOrderService(mysql.NewOrderRepository(a.Db, a.EventBus), a.Logger),
	}
}
