// Package webctx attaches the per-request template context (session user and
// cart item count) before any route handler runs.
package webctx

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
)

type contextKey string

const pageContextKey contextKey = "page_context"

// PageContext is what every rendered page knows about the visitor.
type PageContext struct {
	User      *auth.SessionUser
	CartCount int64
}

// CartCounter sums the quantities in a user's cart.
type CartCounter interface {
	CountItems(ctx context.Context, userID int64) (int64, error)
}

// FromContext returns the PageContext set by Middleware. Requests that never
// went through the middleware get the anonymous zero value.
func FromContext(ctx context.Context) PageContext {
	pc, _ := ctx.Value(pageContextKey).(PageContext)
	return pc
}

// WithPageContext returns a new context carrying pc.
func WithPageContext(ctx context.Context, pc PageContext) context.Context {
	return context.WithValue(ctx, pageContextKey, pc)
}

// Middleware loads the session user and, only for logged-in users, their cart
// count. It never fails the request: a broken session reads as anonymous and a
// failed count reads as zero.
func Middleware(store sessions.Store, counter CartCounter, metrics *telemetry.StorefrontMetrics, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := auth.CurrentUser(store, r)
			if err != nil {
				log.WarnContext(ctx, "unreadable session, treating request as anonymous", "error", err)
				user = nil
			}

			pc := PageContext{User: user}
			if user != nil {
				ctx = auth.WithUser(ctx, user)
				pc.CartCount = CartCount(ctx, counter, user.ID, metrics, log)
			}

			next.ServeHTTP(w, r.WithContext(WithPageContext(ctx, pc)))
		})
	}
}

// CartCount returns the user's cart item count, or 0 when the lookup fails or
// yields a negative number.
func CartCount(ctx context.Context, counter CartCounter, userID int64, metrics *telemetry.StorefrontMetrics, log logger.Logger) int64 {
	if counter == nil {
		return 0
	}
	n, err := counter.CountItems(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "cart count unavailable, showing 0", "user_id", userID, "error", err)
		metrics.CartCountError(ctx)
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
