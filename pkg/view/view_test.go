package view

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/webctx"
)

func newRenderer(t *testing.T, production bool) *Renderer {
	t.Helper()
	v, err := New(logger.Discard(), production)
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	return v
}

func TestNew_LoadsEveryPage(t *testing.T) {
	v := newRenderer(t, false)
	for _, name := range []string{
		"home", "products", "product", "cart", "orders", "order", "login", "register",
		"admin/dashboard", "admin/products", "admin/orders",
		"errors/404", "errors/403", "errors/500", "errors/error",
	} {
		if !v.Has(name) {
			t.Errorf("page %q not loaded", name)
		}
	}
	if v.Has("layout") {
		t.Error("layout must not be a page")
	}
}

func TestRender_UsesPageContext(t *testing.T) {
	v := newRenderer(t, false)

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		v.Render(w, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusOK, "errors/404", "Página no encontrada", ErrorData{Message: "x"})

		body := w.Body.String()
		if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
			t.Fatalf("unexpected response: %d %q", w.Code, w.Header().Get("Content-Type"))
		}
		if !strings.Contains(body, "Crear cuenta") || strings.Contains(body, "Salir") {
			t.Fatal("anonymous layout expected")
		}
	})

	t.Run("admin with cart", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(webctx.WithPageContext(r.Context(), webctx.PageContext{
			User:      &auth.SessionUser{ID: 1, Name: "Ana", Role: auth.RoleAdmin},
			CartCount: 3,
		}))
		w := httptest.NewRecorder()
		v.Render(w, r, http.StatusOK, "errors/404", "Página no encontrada", ErrorData{Message: "x"})

		body := w.Body.String()
		for _, want := range []string{"Hola, Ana", "Carrito (3)", "/admin"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})
}

func TestRender_UnknownTemplate(t *testing.T) {
	var buf bytes.Buffer
	v, err := New(logger.NewWithWriter(&buf, "debug"), false)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	v.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope", "x", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "unknown template") {
		t.Fatal("expected the missing template to be logged")
	}
}

func TestErrorPages(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/missing", nil)

	w := httptest.NewRecorder()
	newRenderer(t, false).NotFound(w, r)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "no existe") {
		t.Fatalf("unexpected 404 page: %d", w.Code)
	}

	w = httptest.NewRecorder()
	newRenderer(t, false).Forbidden(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestServerError_DetailOnlyOutsideProduction(t *testing.T) {
	boom := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	newRenderer(t, false).ServerError(w, r, boom)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "connection refused") {
		t.Fatal("development should show the error detail")
	}

	w = httptest.NewRecorder()
	newRenderer(t, true).ServerError(w, r, boom)
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatal("production must hide the error detail")
	}
	if !strings.Contains(w.Body.String(), "Algo salió mal") {
		t.Fatal("expected generic message")
	}
}

func TestNewFromFS_BrokenTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
		"templates/bad.html":    {Data: []byte(`{{define "content"}}{{.Title{{end}}`)},
	}
	if _, err := NewFromFS(fsys, logger.Discard(), false); err == nil {
		t.Fatal("expected parse error")
	}
}
