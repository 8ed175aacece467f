package services

import (
	"context"
	"fmt"

	cartdomain "github.com/ghuser/gamercart/services/cart/domain"
	"github.com/ghuser/gamercart/services/cart/domain/models"
	"github.com/ghuser/gamercart/services/cart/domain/repositories"
)

// CartService manages the lines of a logged-in user's cart.
type CartService struct {
	repo repositories.CartRepository
}

// NewCartService returns a CartService backed by repo.
func NewCartService(repo repositories.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// View returns the user's cart with current prices.
func (s *CartService) View(ctx context.Context, userID int64) (*models.Cart, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("view cart: %w", err)
	}
	return &models.Cart{UserID: userID, Lines: lines}, nil
}

// Add puts qty units of a product in the cart.
func (s *CartService) Add(ctx context.Context, userID, productID int64, qty int) error {
	if err := models.ValidateQuantity(qty); err != nil {
		return fmt.Errorf("%w: %w", cartdomain.ErrInvalidQuantity, err)
	}
	if err := s.repo.Add(ctx, userID, productID, qty); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// Update sets a line's quantity; zero removes the line.
func (s *CartService) Update(ctx context.Context, userID, productID int64, qty int) error {
	if err := models.ValidateNewQuantity(qty); err != nil {
		return fmt.Errorf("%w: %w", cartdomain.ErrInvalidQuantity, err)
	}
	if qty == 0 {
		return s.Remove(ctx, userID, productID)
	}
	if err := s.repo.SetQuantity(ctx, userID, productID, qty); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// Remove deletes a line from the cart.
func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// CountItems satisfies webctx.CartCounter.
func (s *CartService) CountItems(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountItems(ctx, userID)
}
