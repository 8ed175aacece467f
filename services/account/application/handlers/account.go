package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/errhttp"
	"github.com/ghuser/gamercart/pkg/logger"
	pkgvalidator "github.com/ghuser/gamercart/pkg/validator"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/account/application/services"
	accountdomain "github.com/ghuser/gamercart/services/account/domain"
	"github.com/ghuser/gamercart/services/account/domain/models"
)

// LoginForm is the body of POST /login.
type LoginForm struct {
	Email    string `form:"email"    validate:"required,email,max=255"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the body of POST /register.
type RegisterForm struct {
	Name            string `form:"nombre"           validate:"required,min=2,max=100"`
	Email           string `form:"email"            validate:"required,email,max=255"`
	Password        string `form:"password"         validate:"required,min=6,max=72"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// FormData is the Data of the login and register pages. Passwords are never
// echoed back.
type FormData struct {
	Name    string
	Email   string
	Errors  pkgvalidator.FieldErrors
	Message string
}

// AccountHandler serves login, registration and logout.
type AccountHandler struct {
	svc     *appsvcs.Services
	store   sessions.Store
	views   *view.Renderer
	errPage *errhttp.Responder
	log     logger.Logger
}

// NewAccountHandler returns an AccountHandler writing sessions to store.
func NewAccountHandler(svc *appsvcs.Services, store sessions.Store, views *view.Renderer, log logger.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, store: store, views: views, errPage: errhttp.NewResponder(views), log: log}
}

// LoginPage renders GET /login. Logged-in users go home.
func (h *AccountHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.UserFromCtx(r.Context()); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.views.Render(w, r, http.StatusOK, "login", "Iniciar sesión", FormData{})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, fieldErrs, err := pkgvalidator.DecodeForm[LoginForm](r)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	if fieldErrs != nil {
		h.views.Render(w, r, http.StatusUnprocessableEntity, "login", "Iniciar sesión",
			FormData{Email: form.Email, Errors: fieldErrs})
		return
	}

	u, err := h.svc.Accounts.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, accountdomain.ErrInvalidCredentials) {
			h.views.Render(w, r, http.StatusUnauthorized, "login", "Iniciar sesión",
				FormData{Email: form.Email, Message: errhttp.Message(err)})
			return
		}
		h.errPage.Page(w, r, err)
		return
	}
	h.startSession(w, r, u)
}

// RegisterPage renders GET /register.
func (h *AccountHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.UserFromCtx(r.Context()); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.views.Render(w, r, http.StatusOK, "register", "Crear cuenta", FormData{})
}

// Register handles POST /register and logs the new user in.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, fieldErrs, err := pkgvalidator.DecodeForm[RegisterForm](r)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	if fieldErrs != nil {
		h.views.Render(w, r, http.StatusUnprocessableEntity, "register", "Crear cuenta",
			FormData{Name: form.Name, Email: form.Email, Errors: fieldErrs})
		return
	}

	u, err := h.svc.Accounts.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		status := errhttp.StatusFor(err)
		if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
			h.views.Render(w, r, status, "register", "Crear cuenta",
				FormData{Name: form.Name, Email: form.Email, Message: errhttp.Message(err)})
			return
		}
		h.errPage.Page(w, r, err)
		return
	}
	h.startSession(w, r, u)
}

// Logout handles GET and POST /logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.Logout(h.store, w, r); err != nil {
		h.log.WarnContext(r.Context(), "logout failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) startSession(w http.ResponseWriter, r *http.Request, u *models.User) {
	err := auth.Login(h.store, w, r, auth.SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	h.log.InfoContext(r.Context(), "user logged in", "user_id", u.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
