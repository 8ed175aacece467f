package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ghuser/gamercart/pkg/errhttp"
	pkgvalidator "github.com/ghuser/gamercart/pkg/validator"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/admin/application/services"
	catalogsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
	catalogdomain "github.com/ghuser/gamercart/services/catalog/domain"
	catalogmodels "github.com/ghuser/gamercart/services/catalog/domain/models"
	ordersdomain "github.com/ghuser/gamercart/services/orders/domain"
	ordermodels "github.com/ghuser/gamercart/services/orders/domain/models"
	orderservices "github.com/ghuser/gamercart/services/orders/domain/services"
)

// ProductForm is the body of POST /admin/products.
type ProductForm struct {
	Name        string `form:"nombre"      validate:"required,max=150"`
	Description string `form:"descripcion" validate:"max=2000"`
	Price       string `form:"precio"      validate:"required,numeric"`
	Image       string `form:"imagen"      validate:"max=255"`
	Brand       string `form:"marca"       validate:"max=100"`
}

// StatusForm is the body of POST /admin/orders/{id}/status.
type StatusForm struct {
	Status string `form:"estado" validate:"required"`
}

// ProductsPage is the data of admin/products.
type ProductsPage struct {
	Products []catalogmodels.Product
	Form     ProductForm
	Errors   pkgvalidator.FieldErrors
	Message  string
}

// OrderRow is one order in admin/orders with the statuses it may move to.
type OrderRow struct {
	ordermodels.Order
	Next []ordermodels.Status
}

// AdminHandler serves the back office under /admin.
type AdminHandler struct {
	svc     *appsvcs.Services
	views   *view.Renderer
	errPage *errhttp.Responder
}

// NewAdminHandler returns an AdminHandler.
func NewAdminHandler(svc *appsvcs.Services, views *view.Renderer) *AdminHandler {
	return &AdminHandler{svc: svc, views: views, errPage: errhttp.NewResponder(views)}
}

// Dashboard renders GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Admin.Dashboard(r.Context())
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "admin/dashboard", "Panel de administración", d)
}

// Products renders GET /admin/products.
func (h *AdminHandler) Products(w http.ResponseWriter, r *http.Request) {
	h.renderProducts(w, r, http.StatusOK, ProductsPage{})
}

// CreateProduct handles POST /admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, fieldErrs, err := pkgvalidator.DecodeForm[ProductForm](r)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	if fieldErrs != nil {
		h.renderProducts(w, r, http.StatusUnprocessableEntity, ProductsPage{Form: *form, Errors: fieldErrs})
		return
	}
	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		h.renderProducts(w, r, http.StatusUnprocessableEntity, ProductsPage{
			Form:   *form,
			Errors: pkgvalidator.FieldErrors{"precio": "Debe ser un valor numérico"},
		})
		return
	}

	_, err = h.svc.Admin.CreateProduct(r.Context(), catalogsvcs.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Image:       form.Image,
		Brand:       form.Brand,
	})
	if err != nil {
		if status := errhttp.StatusFor(err); status == http.StatusUnprocessableEntity {
			h.renderProducts(w, r, status, ProductsPage{Form: *form, Message: errhttp.Message(err)})
			return
		}
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// ToggleProduct handles POST /admin/products/{id}/toggle.
func (h *AdminHandler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errPage.Page(w, r, catalogdomain.ErrProductNotFound)
		return
	}
	if err := h.svc.Admin.ToggleProduct(r.Context(), id); err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// Orders renders GET /admin/orders.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Admin.Orders(r.Context())
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		rows[i] = OrderRow{Order: o, Next: orderservices.NextStatuses(o.Status)}
	}
	h.views.Render(w, r, http.StatusOK, "admin/orders", "Pedidos", rows)
}

// UpdateOrderStatus handles POST /admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errPage.Page(w, r, ordersdomain.ErrOrderNotFound)
		return
	}
	form, fieldErrs, err := pkgvalidator.DecodeForm[StatusForm](r)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	if fieldErrs != nil {
		h.errPage.Page(w, r, ordersdomain.ErrInvalidStatus)
		return
	}
	if err := h.svc.Admin.UpdateOrderStatus(r.Context(), id, form.Status); err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}

func (h *AdminHandler) renderProducts(w http.ResponseWriter, r *http.Request, status int, page ProductsPage) {
	products, err := h.svc.Admin.Products(r.Context())
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	page.Products = products
	h.views.Render(w, r, status, "admin/products", "Productos", page)
}
