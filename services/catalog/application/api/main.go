package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
)

// Home builds the GET / homepage handler.
func Home(a *app.Application) (http.HandlerFunc, error) {
	if a.Views == nil {
		return nil, errors.New("catalog: views not configured")
	}
	return handlers.NewHomeHandler(appsvcs.New(a), a.Views).Execute, nil
}

// ProductRoutes builds the /products module.
func ProductRoutes(a *app.Application) (http.Handler, error) {
	if a.Views == nil {
		return nil, errors.New("catalog: views not configured")
	}
	svcs := appsvcs.New(a)

	r := chi.NewRouter()
	r.Get("/", handlers.NewListProductsHandler(svcs, a.Views, a.Logger).Execute)
	r.Get("/{id}", handlers.NewGetProductHandler(svcs, a.Views).Execute)
	return r, nil
}
