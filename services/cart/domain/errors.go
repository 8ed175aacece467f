package domain

import "errors"

// Sentinel errors for the cart domain. Use errors.Is() to check these.
var (
	// ErrInvalidQuantity indicates a quantity outside the allowed range.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrProductUnavailable indicates the product does not exist or is inactive.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrLineNotFound indicates the product is not in the user's cart.
	ErrLineNotFound = errors.New("cart line not found")
)
