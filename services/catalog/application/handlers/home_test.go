package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/view"
	appsvcs "github.com/ghuser/gamercart/services/catalog/application/services"
)

const featuredSQL = "SELECT id, nombre, descripcion, precio, imagen, marca, activo, creado_en FROM productos WHERE activo = true LIMIT ?"

var productCols = []string{"id", "nombre", "descripcion", "precio", "imagen", "marca", "activo", "creado_en"}

func newHome(t *testing.T) (*HomeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	views, err := view.New(logger.Discard(), false)
	if err != nil {
		t.Fatalf("load views: %v", err)
	}
	a := &app.Application{Db: database.New(db, logger.Discard()), Logger: logger.Discard(), Views: views}
	return NewHomeHandler(appsvcs.New(a), views), mock
}

func TestHome_LiveCatalog(t *testing.T) {
	h, mock := newHome(t)
	mock.ExpectQuery(regexp.QuoteMeta(featuredSQL)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(1, "Silla Gamer Corsair", "Ergonómica", "4999.00", "/img/silla.jpg", "Corsair", true, time.Now()).
			AddRow(2, "Control Xbox", nil, "1299.50", nil, nil, true, time.Now()))

	w := httptest.NewRecorder()
	h.Execute(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, want := range []string{"Silla Gamer Corsair", "$4999.00", "Control Xbox", "$1299.50", "/products/2"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "productos de muestra") {
		t.Error("live catalog must not show the fallback notice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestHome_FallsBackOnDatabaseError(t *testing.T) {
	h, mock := newHome(t)
	mock.ExpectQuery(regexp.QuoteMeta(featuredSQL)).WillReturnError(errors.New("connection refused"))

	w := httptest.NewRecorder()
	h.Execute(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("homepage must render even when the database fails, got %d", w.Code)
	}
	for _, want := range []string{"productos de muestra", "Teclado Mecánico Razer BlackWidow V3", "Monitor ASUS TUF Gaming VG249Q"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "connection refused") {
		t.Error("database error leaked into the page")
	}
}

func TestHome_FallsBackOnEmptyCatalog(t *testing.T) {
	h, mock := newHome(t)
	mock.ExpectQuery(regexp.QuoteMeta(featuredSQL)).WillReturnRows(sqlmock.NewRows(productCols))

	w := httptest.NewRecorder()
	h.Execute(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Mouse Logitech G Pro X Superlight") {
		t.Fatalf("expected sample catalog, got %d", w.Code)
	}
}
