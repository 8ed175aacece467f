package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/httpx"
	"github.com/ghuser/gamercart/services/account/application/handlers"
	appsvcs "github.com/ghuser/gamercart/services/account/application/services"
)

// AccountRoutes builds the login, register and logout routes. The module is
// mounted at the root so the paths stay /login, /register and /logout.
func AccountRoutes(a *app.Application) (http.Handler, error) {
	if a.Views == nil {
		return nil, errors.New("account: views not configured")
	}
	if a.SessionStore == nil {
		return nil, errors.New("account: session store not configured")
	}
	h := handlers.NewAccountHandler(appsvcs.New(a), a.SessionStore, a.Views, a.Logger)

	r := chi.NewRouter()
	r.Use(httpx.CredentialRateLimit())
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
	return r, nil
}
