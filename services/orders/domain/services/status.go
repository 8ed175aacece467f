// Package services contains stateless domain services for the orders
// bounded context.
package services

import (
	"fmt"

	"github.com/ghuser/gamercart/services/orders/domain/models"
)

// transitions lists the statuses reachable from each status. Delivered and
// cancelled orders are final.
var transitions = map[models.Status][]models.Status{
	models.StatusPending: {models.StatusPaid, models.StatusCancelled},
	models.StatusPaid:    {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped: {models.StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error naming both statuses when the move is
// not allowed.
func ValidateTransition(from, to models.Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot move order from %s to %s", from, to)
	}
	return nil
}

// NextStatuses returns the statuses an admin may pick for an order in from.
func NextStatuses(from models.Status) []models.Status {
	return append([]models.Status(nil), transitions[from]...)
}
