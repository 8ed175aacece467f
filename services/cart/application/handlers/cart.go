package handlers

import (
	"net/http"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/errhttp"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/cart/application/services"
)

// CartHandler handles the HTML cart pages and form posts under /cart.
// Every route sits behind auth.RequireUser.
type CartHandler struct {
	svc     *appsvcs.Services
	views   *view.Renderer
	errPage *errhttp.Responder
}

// NewCartHandler returns a CartHandler backed by the given services.
func NewCartHandler(svc *appsvcs.Services, views *view.Renderer) *CartHandler {
	return &CartHandler{svc: svc, views: views, errPage: errhttp.NewResponder(views)}
}

// AddForm is the body of POST /cart/add. Cantidad defaults to 1.
type AddForm struct {
	ProductID int64 `form:"producto_id" validate:"required,gt=0"`
	Quantity  int   `form:"cantidad"    validate:"omitempty,gte=1,lte=99"`
}

// UpdateForm is the body of POST /cart/update. Cantidad 0 removes the line.
type UpdateForm struct {
	ProductID int64 `form:"producto_id" validate:"required,gt=0"`
	Quantity  int   `form:"cantidad"    validate:"gte=0,lte=99"`
}

// RemoveForm is the body of POST /cart/remove.
type RemoveForm struct {
	ProductID int64 `form:"producto_id" validate:"required,gt=0"`
}

// Show renders GET /cart.
func (h *CartHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	cart, err := h.svc.Cart.View(r.Context(), user.ID)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "cart", "Mi carrito", cart)
}

// Add handles POST /cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, form, ok := decode[AddForm](h, w, r)
	if !ok {
		return
	}
	qty := form.Quantity
	if qty == 0 {
		qty = 1
	}
	if err := h.svc.Cart.Add(r.Context(), user.ID, form.ProductID, qty); err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Update handles POST /cart/update.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, form, ok := decode[UpdateForm](h, w, r)
	if !ok {
		return
	}
	if err := h.svc.Cart.Update(r.Context(), user.ID, form.ProductID, form.Quantity); err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Remove handles POST /cart/remove.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, form, ok := decode[RemoveForm](h, w, r)
	if !ok {
		return
	}
	if err := h.svc.Cart.Remove(r.Context(), user.ID, form.ProductID); err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
