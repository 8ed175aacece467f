package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/gamercart/pkg/database"
	cartdomain "github.com/ghuser/gamercart/services/cart/domain"
	"github.com/ghuser/gamercart/services/cart/domain/models"
)

// CartRepository implements repositories.CartRepository against MySQL.
type CartRepository struct {
	db database.Querier
}

// NewCartRepository returns a CartRepository using db.
func NewCartRepository(db database.Querier) *CartRepository {
	return &CartRepository{db: db}
}

// CountItems returns SUM(cantidad) for the user; NULL (no lines) is 0.
func (r *CartRepository) CountItems(ctx context.Context, userID int64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, "SELECT SUM(cantidad) as total FROM carrito WHERE usuario_id = ?", userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return total.Int64, nil
}

// Lines returns the user's lines for active products in insertion order.
func (r *CartRepository) Lines(ctx context.Context, userID int64) ([]models.Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.producto_id, p.nombre, p.imagen, p.marca, p.precio, c.cantidad
		FROM carrito c
		JOIN productos p ON p.id = c.producto_id
		WHERE c.usuario_id = ? AND p.activo = true
		ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var lines []models.Line
	for rows.Next() {
		var (
			l            models.Line
			image, brand sql.NullString
			price        decimal.NullDecimal
		)
		if err := rows.Scan(&l.ProductID, &l.Name, &image, &brand, &price, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		l.Image = image.String
		l.Brand = brand.String
		l.UnitPrice = price.Decimal
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return lines, nil
}

// Add upserts the line in one statement. The SELECT yields no row for unknown
// or inactive products, so nothing is affected.
func (r *CartRepository) Add(ctx context.Context, userID, productID int64, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO carrito (usuario_id, producto_id, cantidad)
		SELECT ?, id, ? FROM productos WHERE id = ? AND activo = true
		ON DUPLICATE KEY UPDATE cantidad = LEAST(cantidad + VALUES(cantidad), ?)`,
		userID, qty, productID, models.MaxQuantity)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	if n == 0 {
		return cartdomain.ErrProductUnavailable
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID int64, qty int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE carrito SET cantidad = ? WHERE usuario_id = ? AND producto_id = ?",
		qty, userID, productID)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if n == 0 {
		return cartdomain.ErrLineNotFound
	}
	return nil
}

// Remove deletes the line if present.
func (r *CartRepository) Remove(ctx context.Context, userID, productID int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM carrito WHERE usuario_id = ? AND producto_id = ?", userID, productID); err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}
