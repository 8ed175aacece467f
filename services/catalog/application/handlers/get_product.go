package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/errhttp"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
)

// GetProductHandler handles GET /products/{id}.
type GetProductHandler struct {
	svc     *appsvcs.Services
	views   *view.Renderer
	errPage *errhttp.Responder
}

// NewGetProductHandler returns a GetProductHandler.
func NewGetProductHandler(svc *appsvcs.Services, views *view.Renderer) *GetProductHandler {
	return &GetProductHandler{svc: svc, views: views, errPage: errhttp.NewResponder(views)}
}

// Execute renders an active product's detail page.
func (h *GetProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.views.NotFound(w, r)
		return
	}

	p, err := h.svc.Catalog.Get(r.Context(), id)
	if err != nil {
		h.errPage.Page(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "product", p.Name, p)
}
