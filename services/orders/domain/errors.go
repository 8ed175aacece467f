package domain

import "errors"

// Sentinel errors for the orders domain. Use errors.Is() to check these.
var (
	// ErrEmptyCart indicates checkout was attempted with no purchasable lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNotFound indicates the order does not exist or belongs to
	// another user.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatus indicates an unknown order status value.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition indicates the status change is not allowed from
	// the order's current status.
	ErrInvalidTransition = errors.New("invalid order status transition")
)
