package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/logger"
	catalogdomain "github.com/ghuser/gamercart/services/catalog/domain"
	"github.com/ghuser/gamercart/services/catalog/domain/models"
)

var cols = []string{"id", "nombre", "descripcion", "precio", "imagen", "marca", "activo", "creado_en"}

func newRepo(t *testing.T) (*ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewProductRepository(database.New(db, logger.Discard()), nil), mock
}

func TestFeatured_CoercesPrices(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM productos WHERE activo = true LIMIT ?")).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Teclado", "RGB", "1899.00", "https://img/1", "Razer", true, now).
			AddRow(2, "Mouse", nil, "no-es-numero", nil, nil, true, now).
			AddRow(3, "Audífonos", nil, nil, nil, "SteelSeries", true, nil))

	products, err := repo.Featured(context.Background(), models.FeaturedLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].Price.StringFixed(2) != "1899.00" || products[0].Brand != "Razer" {
		t.Errorf("unexpected first product: %+v", products[0])
	}
	if !products[1].Price.IsZero() || !products[2].Price.IsZero() {
		t.Errorf("malformed and NULL prices must coerce to 0, got %s and %s", products[1].Price, products[2].Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFeatured_QueryError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("FROM productos").WillReturnError(errors.New("table missing"))

	if _, err := repo.Featured(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_BuildsFilters(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE activo = true AND marca = ? AND nombre LIKE ? ORDER BY creado_en DESC")).
		WithArgs("Razer", `%100\%%`).
		WillReturnRows(sqlmock.NewRows(cols))

	if _, err := repo.List(context.Background(), models.Filter{Brand: " Razer ", Query: "100%"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_NoFilters(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM productos WHERE activo = true ORDER BY")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(cols))

	if _, err := repo.List(context.Background(), models.Filter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM productos WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGetManyByID(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN (?,?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "A", nil, "1", nil, nil, true, nil))

	got, err := repo.GetManyByID(context.Background(), []int64{1, 2})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}

	empty, err := repo.GetManyByID(context.Background(), nil)
	if err != nil || empty != nil {
		t.Fatalf("expected no query for empty ids, got %v %v", empty, err)
	}
}

func TestCreate_SetsID(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO productos")).
		WillReturnResult(sqlmock.NewResult(17, 1))
	mock.ExpectCommit()

	p := &models.Product{Name: "Mouse", Active: true}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 17 {
		t.Fatalf("expected id 17, got %d", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetActive(t *testing.T) {
	t.Run("unknown product rolls back", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE productos SET activo = ? WHERE id = ?")).
			WithArgs(false, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SetActive(context.Background(), 5, false)
		if !errors.Is(err, catalogdomain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("existing product commits", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE productos").WithArgs(true, int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.SetActive(context.Background(), 5, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestStats(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), SUM(activo = true) FROM productos")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(0, nil))

	s, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Total != 0 || s.Active != 0 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestBrands(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("SELECT DISTINCT marca").
		WillReturnRows(sqlmock.NewRows([]string{"marca"}).AddRow("ASUS").AddRow("Razer"))

	brands, err := repo.Brands(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(brands) != 2 || brands[0] != "ASUS" {
		t.Fatalf("unexpected brands: %v", brands)
	}
}
