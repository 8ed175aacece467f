package handlers

import (
	"net/http"

	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
	"github.com/ghuser/gamercart/services/catalog/domain/models"
)

// HomeData is the data of the homepage template.
type HomeData struct {
	Products []models.Product
	Fallback bool
}

// HomeHandler handles GET /.
type HomeHandler struct {
	svc   *appsvcs.Services
	views *view.Renderer
}

// NewHomeHandler returns a HomeHandler backed by the given services.
func NewHomeHandler(svc *appsvcs.Services, views *view.Renderer) *HomeHandler {
	return &HomeHandler{svc: svc, views: views}
}

// Execute renders the featured products. It always renders the page; a
// database failure shows the sample catalog.
func (h *HomeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Catalog.Featured(r.Context())
	h.views.Render(w, r, http.StatusOK, "home", "Inicio", HomeData{
		Products: res.Products,
		Fallback: res.IsFallback(),
	})
}
