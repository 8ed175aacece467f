package services

import (
	"context"
	"fmt"

	"github.com/ghuser/gamercart/pkg/logger"
	ordersdomain "github.com/ghuser/gamercart/services/orders/domain"
	"github.com/ghuser/gamercart/services/orders/domain/models"
	"github.com/ghuser/gamercart/services/orders/domain/repositories"
)

// RecentLimit caps the admin order listing.
const RecentLimit = 50

// OrderService handles checkout, order history and status changes.
type OrderService struct {
	repo repositories.OrderRepository
	log  logger.Logger
}

// NewOrderService returns an OrderService backed by repo.
func NewOrderService(repo repositories.OrderRepository, log logger.Logger) *OrderService {
	return &OrderService{repo: repo, log: log}
}

// Checkout places an order with the user's cart.
func (s *OrderService) Checkout(ctx context.Context, userID int64) (*models.Order, error) {
	o, err := s.repo.Checkout(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	s.log.InfoContext(ctx, "order placed",
		"order_id", o.ID,
		"reference", o.Reference,
		"user_id", userID,
		"total", o.Total.StringFixed(2),
		"items", o.ItemCount(),
	)
	return o, nil
}

// History returns the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}

// Get returns one of the user's orders with its lines.
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, ordersdomain.ErrOrderNotFound
	}
	o, err := s.repo.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Recent returns the latest orders of all customers.
func (s *OrderService) Recent(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListRecent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus validates the submitted status and applies it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	to, err := models.ParseStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %w", ordersdomain.ErrInvalidStatus, err)
	}
	if orderID <= 0 {
		return ordersdomain.ErrOrderNotFound
	}
	if err := s.repo.UpdateStatus(ctx, orderID, to); err != nil {
		return fmt.Errorf("update order %d: %w", orderID, err)
	}
	s.log.InfoContext(ctx, "order status changed", "order_id", orderID, "status", string(to))
	return nil
}

// Count returns the number of orders.
func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// TopProducts ranks products by units sold, computed in SQL.
func (s *OrderService) TopProducts(ctx context.Context, limit int) ([]repositories.ProductSales, error) {
	top, err := s.repo.TopProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return top, nil
}
