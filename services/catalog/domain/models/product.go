package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	maxNameLength  = 200
	maxBrandLength = 100
	maxImageLength = 500
)

// Product is a catalog entry. Only active products are visible in the store.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Brand       string
	Active      bool
	CreatedAt   time.Time
}

// NewProduct validates the fields of a new, active product.
func NewProduct(name, description string, price decimal.Decimal, image, brand string) (*Product, error) {
	name = strings.TrimSpace(name)
	brand = strings.TrimSpace(brand)
	image = strings.TrimSpace(image)

	switch {
	case name == "":
		return nil, fmt.Errorf("product name is required")
	case len(name) > maxNameLength:
		return nil, fmt.Errorf("product name must not exceed %d characters", maxNameLength)
	case len(brand) > maxBrandLength:
		return nil, fmt.Errorf("brand must not exceed %d characters", maxBrandLength)
	case len(image) > maxImageLength:
		return nil, fmt.Errorf("image must not exceed %d characters", maxImageLength)
	case price.IsNegative():
		return nil, fmt.Errorf("price must not be negative")
	}

	return &Product{
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price.Round(2),
		Image:       image,
		Brand:       brand,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Filter narrows the public product listing. Empty fields match everything.
type Filter struct {
	Brand string
	Query string
}

// CoercePrice turns a price column value into a decimal. Values that are
// missing or not numeric count as zero.
func CoercePrice(v any) decimal.Decimal {
	switch p := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return p
	case []byte:
		return parsePrice(string(p))
	case string:
		return parsePrice(p)
	case float64:
		return decimal.NewFromFloat(p)
	case float32:
		return decimal.NewFromFloat32(p)
	case int64:
		return decimal.NewFromInt(p)
	case int:
		return decimal.NewFromInt(int64(p))
	default:
		return decimal.Zero
	}
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
