package services

import (
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/services/account/infrastructure/persistence/mysql"
)

// Services is the application-layer service container for accounts.
type Services struct {
	Accounts *AccountService
}

// New wires the account services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Accounts: NewAccountService(mysql.NewUserRepository(a.Db), a.Logger),
	}
}
