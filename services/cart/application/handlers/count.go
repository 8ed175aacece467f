package handlers

import (
	"net/http"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/httpx"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
	"github.com/ghuser/gamercart/pkg/webctx"
	appsvcs "github.com/ghuser/gamercart/services/cart/application/services"
)

// CountResponse is returned by GET /cart/count.
type CountResponse struct {
	Count int64 `json:"count" example:"3"`
} // @name CountResponse

// CountHandler handles GET /cart/count.
type CountHandler struct {
	svc     *appsvcs.Services
	metrics *telemetry.StorefrontMetrics
	log     logger.Logger
}

// NewCountHandler returns a CountHandler backed by the given services.
func NewCountHandler(svc *appsvcs.Services, metrics *telemetry.StorefrontMetrics, log logger.Logger) *CountHandler {
	return &CountHandler{svc: svc, metrics: metrics, log: log}
}

// Execute returns the session user's cart item count.
//
//	@Summary		Cart item count
//	@Description	Sum of quantities in the session user's cart. Lookup failures report 0.
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CountResponse
//	@Failure		303	"redirect to /login without a session"
//	@Router			/cart/count [get]
func (h *CountHandler) Execute(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	n := webctx.CartCount(r.Context(), h.svc.Cart, user.ID, h.metrics, h.log)
	httpx.JSON(w, http.StatusOK, CountResponse{Count: n})
}
