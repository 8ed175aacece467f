package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/view"
	"github.com/ghuser/gamercart/services/orders/application/api"
)

var (
	customer = &auth.SessionUser{ID: 3, Name: "Luis", Email: "luis@example.com", Role: auth.RoleCustomer}
	cartCols = []string{"producto_id", "nombre", "cantidad", "precio"}
)

func newOrderRoutes(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	views, err := view.New(logger.Discard(), true)
	if err != nil {
		t.Fatalf("load views: %v", err)
	}
	h, err := api.OrderRoutes(&app.Application{
		Db:     database.New(db, logger.Discard()),
		Logger: logger.Discard(),
		Views:  views,
	})
	if err != nil {
		t.Fatalf("order routes: %v", err)
	}
	return h, mock
}

func as(req *http.Request, u *auth.SessionUser) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), u))
}

func TestOrderRoutes_AnonymousRedirectsToLogin(t *testing.T) {
	h, _ := newOrderRoutes(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodGet, "/42"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
				t.Fatalf("expected 303 to /login, got %d %q", w.Code, w.Header().Get("Location"))
			}
		})
	}
}

func TestOrderRoutes_CheckoutRedirectsToNewOrder(t *testing.T) {
	h, mock := newOrderRoutes(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.producto_id, p.nombre, c.cantidad, p.precio")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cartCols).AddRow(1, "Teclado Mecánico RGB", 2, "1899.00"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pedidos")).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pedido_detalles")).
		WithArgs(int64(42), int64(1), 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM carrito WHERE usuario_id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, as(httptest.NewRequest(http.MethodPost, "/", nil), customer))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/orders/42" {
		t.Fatalf("expected 303 to /orders/42, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderRoutes_CheckoutEmptyCart(t *testing.T) {
	h, mock := newOrderRoutes(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.producto_id, p.nombre, c.cantidad, p.precio")).
		WillReturnRows(sqlmock.NewRows(cartCols))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, as(httptest.NewRequest(http.MethodPost, "/", nil), customer))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderRoutes_ShowNonNumericIDIsNotFound(t *testing.T) {
	h, mock := newOrderRoutes(t)

	for _, path := range []string{"/abc", "/0", "/-5"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, as(httptest.NewRequest(http.MethodGet, path, nil), customer))
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
		})
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}
