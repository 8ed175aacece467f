package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/errhttp"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/orders/application/services"
	ordersdomain "github.com/ghuser/gamercart/services/orders/domain"
)

// OrdersHandler serves checkout and the customer's order pages.
type OrdersHandler struct {
	svc     *appsvcs.Services
	views   *view.Renderer
	errPage *errhttp.Responder
}

// NewOrdersHandler returns an OrdersHandler backed by the given services.
func NewOrdersHandler(svc *appsvcs.Services, views *view.Renderer) *OrdersHandler {
	return &OrdersHandler{svc: svc, views: views, errPage: errhttp.NewResponder(views)}
}

// Checkout handles POST /orders and redirects to the new order.
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	o, err := h.svc.Orders.Checkout(r.Context(), user.ID)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/orders/"+strconv.FormatInt(o.ID, 10), http.StatusSeeOther)
}

// List renders GET /orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	orders, err := h.svc.Orders.History(r.Context(), user.ID)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "orders", "Mis pedidos", orders)
}

// Show renders GET /orders/{id}.
func (h *OrdersHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errPage.Page(w, r, ordersdomain.ErrOrderNotFound)
		return
	}
	o, err := h.svc.Orders.Get(r.Context(), user.ID, id)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "order", "Pedido "+o.Reference, o)
}
