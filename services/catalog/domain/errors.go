package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates the product does not exist or is not
	// visible to the caller.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct indicates product fields violate domain constraints.
	ErrInvalidProduct = errors.New("invalid product")
)
