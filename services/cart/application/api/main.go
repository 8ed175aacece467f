package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/services/cart/application/handlers"
	appsvcs "github.com/ghuser/gamercart/services/cart/application/services"
)

// CartRoutes builds the /cart module. Every route requires a logged-in user.
func CartRoutes(a *app.Application) (http.Handler, error) {
	if a.Views == nil {
		return nil, errors.New("cart: views not configured")
	}
	svcs := appsvcs.New(a)
	cart := handlers.NewCartHandler(svcs, a.Views)

	r := chi.NewRouter()
	r.Use(auth.RequireUser)
	r.Get("/", cart.Show)
	r.Post("/add", cart.Add)
	r.Post("/update", cart.Update)
	r.Post("/remove", cart.Remove)
	r.Get("/count", handlers.NewCountHandler(svcs, a.Metrics, a.Logger).Execute)
	return r, nil
}
