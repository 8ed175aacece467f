package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// StorefrontMetrics counts the degraded paths of the storefront. A nil
// *StorefrontMetrics is valid and records nothing.
type StorefrontMetrics struct {
	homepageFallback metric.Int64Counter
	cartCountErrors  metric.Int64Counter
}

// NewStorefrontMetrics registers the counters on the global meter provider.
// Call after Setup so they are exported through /metrics.
func NewStorefrontMetrics() (*StorefrontMetrics, error) {
	meter := otel.Meter("github.com/ghuser/gamercart/storefront")

	fallback, err := meter.Int64Counter("storefront.homepage.fallback",
		metric.WithDescription("Homepage renders served from the built-in sample catalog"),
	)
	if err != nil {
		return nil, fmt.Errorf("homepage fallback counter: %w", err)
	}
	cartErrs, err := meter.Int64Counter("storefront.cart_count.errors",
		metric.WithDescription("Cart count lookups that failed and were reported as zero"),
	)
	if err != nil {
		return nil, fmt.Errorf("cart count error counter: %w", err)
	}
	return &StorefrontMetrics{homepageFallback: fallback, cartCountErrors: cartErrs}, nil
}

// HomepageFallback records one degraded homepage render.
func (m *StorefrontMetrics) HomepageFallback(ctx context.Context) {
	if m == nil {
		return
	}
	m.homepageFallback.Add(ctx, 1)
}

// CartCountError records one failed cart count lookup.
func (m *StorefrontMetrics) CartCountError(ctx context.Context) {
	if m == nil {
		return
	}
	m.cartCountErrors.Add(ctx, 1)
}
