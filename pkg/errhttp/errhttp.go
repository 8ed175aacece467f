// Package errhttp maps domain sentinel errors to HTTP status codes and user
// messages. Each new domain sentinel needs a case in StatusFor and Message.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/gamercart/pkg/httpx"
	"github.com/ghuser/gamercart/pkg/validator"
	"github.com/ghuser/gamercart/pkg/view"
	accountdomain "github.com/ghuser/gamercart/services/account/domain"
	cartdomain "github.com/ghuser/gamercart/services/cart/domain"
	catalogdomain "github.com/ghuser/gamercart/services/catalog/domain"
	ordersdomain "github.com/ghuser/gamercart/services/orders/domain"
)

// StatusFor maps err to an HTTP status code. Wrapped sentinels are matched
// with errors.Is; anything unrecognized is a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, ordersdomain.ErrOrderNotFound),
		errors.Is(err, cartdomain.ErrLineNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, accountdomain.ErrEmailTaken):
		return http.StatusConflict // 409
	case errors.Is(err, accountdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized // 401
	case errors.Is(err, validator.ErrInvalidForm):
		return http.StatusBadRequest // 400
	case errors.Is(err, catalogdomain.ErrInvalidProduct),
		errors.Is(err, cartdomain.ErrInvalidQuantity),
		errors.Is(err, cartdomain.ErrProductUnavailable),
		errors.Is(err, ordersdomain.ErrEmptyCart),
		errors.Is(err, ordersdomain.ErrInvalidStatus),
		errors.Is(err, ordersdomain.ErrInvalidTransition),
		errors.Is(err, accountdomain.ErrInvalidAccount):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}

// Message is the user-facing text for err. 5xx errors get a generic text.
func Message(err error) string {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		return "El producto no existe o ya no está disponible."
	case errors.Is(err, ordersdomain.ErrOrderNotFound):
		return "El pedido no existe."
	case errors.Is(err, cartdomain.ErrLineNotFound):
		return "El producto no está en tu carrito."
	case errors.Is(err, accountdomain.ErrEmailTaken):
		return "Ya existe una cuenta con ese correo."
	case errors.Is(err, accountdomain.ErrInvalidCredentials):
		return "Correo o contraseña incorrectos."
	case errors.Is(err, validator.ErrInvalidForm):
		return "El formulario enviado no es válido."
	case errors.Is(err, catalogdomain.ErrInvalidProduct):
		return "Los datos del producto no son válidos."
	case errors.Is(err, cartdomain.ErrInvalidQuantity):
		return "La cantidad debe estar entre 1 y 99."
	case errors.Is(err, cartdomain.ErrProductUnavailable):
		return "El producto no está disponible."
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		return "Tu carrito está vacío."
	case errors.Is(err, ordersdomain.ErrInvalidStatus), errors.Is(err, ordersdomain.ErrInvalidTransition):
		return "Ese cambio de estado no está permitido."
	case errors.Is(err, accountdomain.ErrInvalidAccount):
		return "Los datos de la cuenta no son válidos."
	default:
		return "Algo salió mal. Intenta de nuevo más tarde."
	}
}

// WriteError writes a JSON error response for err.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, StatusFor(err), Message(err))
}

// Responder renders HTML error pages for domain errors.
type Responder struct {
	views *view.Renderer
}

// NewResponder returns a Responder rendering through views.
func NewResponder(views *view.Renderer) *Responder {
	return &Responder{views: views}
}

// Page renders the error page matching err's status. 5xx errors are logged by
// the renderer and show detail only outside production. Clients that asked
// for JSON get the ErrorBody instead of a page.
func (p *Responder) Page(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if httpx.WantsJSON(r) {
		if status >= http.StatusInternalServerError {
			p.views.LogFailure(r, err)
		}
		WriteError(w, err)
		return
	}
	switch {
	case status == http.StatusNotFound:
		p.views.Render(w, r, status, "errors/404", "No encontrado", view.ErrorData{Message: Message(err)})
	case status >= http.StatusInternalServerError:
		p.views.ServerError(w, r, err)
	default:
		p.views.Render(w, r, status, "errors/error", "Solicitud no válida", view.ErrorData{Message: Message(err)})
	}
}
