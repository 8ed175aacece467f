package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/services/admin/application/handlers"
	appsvcs "github.com/ghuser/gamercart/services/admin/application/services"
)

// AdminRoutes builds the /admin module. Anonymous visitors are sent to
// /login and logged-in customers get the 403 page.
func AdminRoutes(a *app.Application) (http.Handler, error) {
	if a.Views == nil {
		return nil, errors.New("admin: views not configured")
	}
	h := handlers.NewAdminHandler(appsvcs.New(a), a.Views)

	r := chi.NewRouter()
	r.Use(auth.RequireAdmin(a.Views.Forbidden))
	r.Get("/", h.Dashboard)
	r.Get("/products", h.Products)
	r.Post("/products", h.CreateProduct)
	r.Post("/products/{id}/toggle", h.ToggleProduct)
	r.Get("/orders", h.Orders)
	r.Post("/orders/{id}/status", h.UpdateOrderStatus)
	return r, nil
}
