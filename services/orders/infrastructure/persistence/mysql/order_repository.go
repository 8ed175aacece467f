package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/events"
	ordersdomain "github.com/ghuser/gamercart/services/orders/domain"
	domainevents "github.com/ghuser/gamercart/services/orders/domain/events"
	"github.com/ghuser/gamercart/services/orders/domain/models"
	"github.com/ghuser/gamercart/services/orders/domain/repositories"
	domainservices "github.com/ghuser/gamercart/services/orders/domain/services"
)

const orderColumns = "o.id, o.referencia, o.usuario_id, o.total, o.estado, o.creado_en"

// OrderRepository implements repositories.OrderRepository against MySQL.
type OrderRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewOrderRepository returns an OrderRepository. bus may be nil, in which
// case checkout commits without publishing.
func NewOrderRepository(db *database.Database, bus *events.EventBus) *OrderRepository {
	return &OrderRepository{db: db, bus: bus}
}

// Checkout locks the user's cart lines, snapshots current prices into a new
// order, empties the cart and publishes order.placed, all in one transaction.
func (r *OrderRepository) Checkout(ctx context.Context, userID int64) (*models.Order, error) {
	var order *models.Order
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		lines, err := lockCartLines(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ordersdomain.ErrEmptyCart
		}
		o, err := models.NewOrder(userID, lines)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO pedidos (referencia, usuario_id, total, estado, creado_en) VALUES (?, ?, ?, ?, ?)",
			o.Reference, o.UserID, o.Total, string(o.Status), o.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if o.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("order id: %w", err)
		}

		for _, l := range o.Lines {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO pedido_detalles (pedido_id, producto_id, cantidad, precio_unitario) VALUES (?, ?, ?, ?)",
				o.ID, l.ProductID, l.Quantity, l.UnitPrice,
			); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM carrito WHERE usuario_id = ?", userID); err != nil {
			return fmt.Errorf("empty cart: %w", err)
		}

		if err := r.publishPlaced(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func lockCartLines(ctx context.Context, tx *sql.Tx, userID int64) ([]models.Line, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT c.producto_id, p.nombre, c.cantidad, p.precio
		FROM carrito c
		JOIN productos p ON p.id = c.producto_id
		WHERE c.usuario_id = ? AND p.activo = true
		ORDER BY c.id
		FOR UPDATE`, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var lines []models.Line
	for rows.Next() {
		var l models.Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return lines, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.query(ctx, false,
		"SELECT "+orderColumns+" FROM pedidos o WHERE o.usuario_id = ? ORDER BY o.creado_en DESC, o.id DESC", userID)
}

// GetForUser returns the order with its lines, or ErrOrderNotFound when it
// does not exist or belongs to someone else.
func (r *OrderRepository) GetForUser(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM pedidos o WHERE o.id = ? AND o.usuario_id = ?", orderID, userID)
	o, err := scanOrder(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ordersdomain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT d.producto_id, p.nombre, d.cantidad, d.precio_unitario
		FROM pedido_detalles d
		JOIN productos p ON p.id = d.producto_id
		WHERE d.pedido_id = ?
		ORDER BY d.id`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var l models.Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return o, nil
}

// ListRecent returns the latest orders of every customer.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	return r.query(ctx, true, `
		SELECT `+orderColumns+`, u.nombre
		FROM pedidos o
		JOIN usuarios u ON u.id = o.usuario_id
		ORDER BY o.creado_en DESC, o.id DESC
		LIMIT ?`, limit)
}

// UpdateStatus locks the order row and applies the change when the
// transition from the stored status is allowed.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, to models.Status) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, "SELECT estado FROM pedidos WHERE id = ? FOR UPDATE", orderID).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ordersdomain.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		from, err := models.ParseStatus(current)
		if err != nil {
			return fmt.Errorf("%w: %w", ordersdomain.ErrInvalidStatus, err)
		}
		if err := domainservices.ValidateTransition(from, to); err != nil {
			return fmt.Errorf("%w: %w", ordersdomain.ErrInvalidTransition, err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE pedidos SET estado = ? WHERE id = ?", string(to), orderID); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
}

// Count returns the number of orders.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pedidos").Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// TopProducts ranks products by units sold, ignoring cancelled orders.
func (r *OrderRepository) TopProducts(ctx context.Context, limit int) ([]repositories.ProductSales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.producto_id, SUM(d.cantidad) AS unidades
		FROM pedido_detalles d
		JOIN pedidos o ON o.id = d.pedido_id
		WHERE o.estado <> 'cancelado'
		GROUP BY d.producto_id
		ORDER BY unidades DESC, d.producto_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []repositories.ProductSales
	for rows.Next() {
		var s repositories.ProductSales
		if err := rows.Scan(&s.ProductID, &s.Units); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *OrderRepository) publishPlaced(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	if r.bus == nil {
		return nil
	}
	evt := domainevents.NewOrderPlacedEvent(o)
	msg, err := events.NewMessage(evt.EventID.String(), evt.Version, evt)
	if err != nil {
		return err
	}
	if err := r.bus.PublishTx(ctx, tx, domainevents.TopicOrderPlaced, msg); err != nil {
		return fmt.Errorf("publish order placed: %w", err)
	}
	return nil
}

func (r *OrderRepository) query(ctx context.Context, withCustomer bool, sqlText string, args ...any) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows, withCustomer)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner, withCustomer bool) (*models.Order, error) {
	var (
		o      models.Order
		status string
	)
	dest := []any{&o.ID, &o.Reference, &o.UserID, &o.Total, &status, &o.CreatedAt}
	if withCustomer {
		dest = append(dest, &o.CustomerName)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o.Status = st
	return &o, nil
}
