package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/events"
	catalogdomain "github.com/ghuser/gamercart/services/catalog/domain"
	domainevents "github.com/ghuser/gamercart/services/catalog/domain/events"
	"github.com/ghuser/gamercart/services/catalog/domain/models"
	"github.com/ghuser/gamercart/services/catalog/domain/repositories"
)

const productColumns = "id, nombre, descripcion, precio, imagen, marca, activo, creado_en"

// ProductRepository implements repositories.ProductRepository against MySQL.
type ProductRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewProductRepository returns a ProductRepository. bus may be nil, in which
// case writes commit without publishing product change events.
func NewProductRepository(db *database.Database, bus *events.EventBus) *ProductRepository {
	return &ProductRepository{db: db, bus: bus}
}

// Featured returns up to limit active products.
func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	return r.query(ctx, "SELECT "+productColumns+" FROM productos WHERE activo = true LIMIT ?", limit)
}

// List returns active products, optionally filtered by brand and a name search.
func (r *ProductRepository) List(ctx context.Context, filter models.Filter) ([]models.Product, error) {
	var (
		where = []string{"activo = true"}
		args  []any
	)
	if b := strings.TrimSpace(filter.Brand); b != "" {
		where = append(where, "marca = ?")
		args = append(args, b)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, "nombre LIKE ?")
		args = append(args, "%"+escapeLike(q)+"%")
	}
	sqlText := "SELECT " + productColumns + " FROM productos WHERE " + strings.Join(where, " AND ") + " ORDER BY creado_en DESC, id DESC"
	return r.query(ctx, sqlText, args...)
}

// ListAll returns every product for the admin area.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, "SELECT "+productColumns+" FROM productos ORDER BY id")
}

// GetByID returns the product or ErrProductNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM productos WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

// GetManyByID returns the products with the given ids.
func (r *ProductRepository) GetManyByID(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.query(ctx, "SELECT "+productColumns+" FROM productos WHERE id IN ("+placeholders+")", args...)
}

// Brands returns the distinct brands of active products, alphabetically.
func (r *ProductRepository) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT marca FROM productos WHERE activo = true AND marca IS NOT NULL AND marca <> '' ORDER BY marca")
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// Create inserts p and publishes a created event in the same transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO productos (nombre, descripcion, precio, imagen, marca, activo, creado_en) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.Name, p.Description, p.Price, p.Image, p.Brand, p.Active, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		p.ID = id
		return r.publishChanged(ctx, tx, id, domainevents.ChangeCreated)
	})
}

// SetActive toggles visibility. Returns ErrProductNotFound for unknown ids.
func (r *ProductRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE productos SET activo = ? WHERE id = ?", active, id)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if n == 0 {
			return catalogdomain.ErrProductNotFound
		}
		change := domainevents.ChangeDeactivated
		if active {
			change = domainevents.ChangeActivated
		}
		return r.publishChanged(ctx, tx, id, change)
	})
}

// Stats counts all and active products.
func (r *ProductRepository) Stats(ctx context.Context) (repositories.Stats, error) {
	var (
		s      repositories.Stats
		active sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(activo = true) FROM productos").Scan(&s.Total, &active)
	if err != nil {
		return s, fmt.Errorf("count products: %w", err)
	}
	s.Active = active.Int64
	return s, nil
}

func (r *ProductRepository) publishChanged(ctx context.Context, tx *sql.Tx, productID int64, change string) error {
	if r.bus == nil {
		return nil
	}
	evt := domainevents.NewProductChangedEvent(productID, change)
	msg, err := events.NewMessage(evt.EventID.String(), evt.Version, evt)
	if err != nil {
		return err
	}
	if err := r.bus.PublishTx(ctx, tx, domainevents.TopicProductChanged, msg); err != nil {
		return fmt.Errorf("publish product changed: %w", err)
	}
	return nil
}

func (r *ProductRepository) query(ctx context.Context, sqlText string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanProduct reads one row of productColumns. The price is read as text and
// coerced so a malformed value shows as 0 instead of failing the page.
func scanProduct(s scanner) (*models.Product, error) {
	var (
		p                         models.Product
		desc, price, image, brand sql.NullString
		created                   sql.NullTime
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &price, &image, &brand, &p.Active, &created); err != nil {
		return nil, err
	}
	p.Description = desc.String
	p.Image = image.String
	p.Brand = brand.String
	p.CreatedAt = created.Time
	if price.Valid {
		p.Price = models.CoercePrice(price.String)
	} else {
		p.Price = models.CoercePrice(nil)
	}
	return &p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
