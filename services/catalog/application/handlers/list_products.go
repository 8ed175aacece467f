package handlers

import (
	"net/http"

	"github.com/ghuser/gamercart/pkg/errhttp"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
	"github.com/ghuser/gamercart/services/catalog/domain/models"
)

// ProductsData is the data of the product listing template.
type ProductsData struct {
	Products []models.Product
	Brands   []string
	Brand    string
	Query    string
}

// ListProductsHandler handles GET /products?marca=&q=.
type ListProductsHandler struct {
	svc     *appsvcs.Services
	views   *view.Renderer
	errPage *errhttp.Responder
	log     logger.Logger
}

// NewListProductsHandler returns a ListProductsHandler.
func NewListProductsHandler(svc *appsvcs.Services, views *view.Renderer, log logger.Logger) *ListProductsHandler {
	return &ListProductsHandler{svc: svc, views: views, errPage: errhttp.NewResponder(views), log: log}
}

// Execute lists active products. A failing brand lookup only hides the
// brand filter.
func (h *ListProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := models.Filter{
		Brand: r.URL.Query().Get("marca"),
		Query: r.URL.Query().Get("q"),
	}

	products, err := h.svc.Catalog.List(ctx, filter)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}

	brands, err := h.svc.Catalog.Brands(ctx)
	if err != nil {
		h.log.WarnContext(ctx, "brand filter unavailable", "error", err)
	}

	h.views.Render(w, r, http.StatusOK, "products", "Productos", ProductsData{
		Products: products,
		Brands:   brands,
		Brand:    filter.Brand,
		Query:    filter.Query,
	})
}
