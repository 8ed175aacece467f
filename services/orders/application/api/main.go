package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/services/orders/application/handlers"
	appsvcs "github.com/ghuser/gamercart/services/orders/application/services"
)

// OrderRoutes builds the /orders module. Every route requires a logged-in user.
func OrderRoutes(a *app.Application) (http.Handler, error) {
	if a.Views == nil {
		return nil, errors.New("orders: views not configured")
	}
	h := handlers.NewOrdersHandler(appsvcs.New(a), a.Views)

	r := chi.NewRouter()
	r.Use(auth.RequireUser)
	r.Get("/", h.List)
	r.Post("/", h.Checkout)
	r.Get("/{id}", h.Show)
	return r, nil
}
