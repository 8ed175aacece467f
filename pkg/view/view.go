// Package view renders the storefront's server-side HTML pages from embedded
// html/template files. Each page is parsed together with the shared layout
// into its own template set.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/webctx"
)

//go:embed templates
var templatesFS embed.FS

// Page is the data every template receives. Data holds the page-specific value.
type Page struct {
	Title     string
	User      *auth.SessionUser
	CartCount int64
	Data      any
}

// ErrorData is the Data of the error pages.
type ErrorData struct {
	Message string
	Detail  string
}

// Renderer renders named pages. Names are paths under templates/ without the
// extension, e.g. "home" or "admin/products".
type Renderer struct {
	pages        map[string]*template.Template
	log          logger.Logger
	isProduction bool
}

// New parses every page under templates/ with the layout.
func New(log logger.Logger, isProduction bool) (*Renderer, error) {
	return NewFromFS(templatesFS, log, isProduction)
}

// NewFromFS parses templates from fsys, which must contain templates/layout.html.
func NewFromFS(fsys fs.FS, log logger.Logger, isProduction bool) (*Renderer, error) {
	v := &Renderer{pages: make(map[string]*template.Template), log: log, isProduction: isProduction}

	err := fs.WalkDir(fsys, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") || path == "templates/layout.html" {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		t, err := template.New("layout").Funcs(funcs).ParseFS(fsys, "templates/layout.html", path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return v, nil
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006 15:04") },
}

// Has reports whether a page with this name was loaded.
func (v *Renderer) Has(name string) bool {
	_, ok := v.pages[name]
	return ok
}

// Render writes page name with the given status. User and cart count come
// from the request context.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	pc := webctx.FromContext(r.Context())
	page := Page{Title: title, User: pc.User, CartCount: pc.CartCount, Data: data}

	t, ok := v.pages[name]
	if !ok {
		v.log.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		v.log.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (v *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, "errors/404", "Página no encontrada", ErrorData{
		Message: "La página que buscas no existe.",
	})
}

// Forbidden renders the 403 page.
func (v *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusForbidden, "errors/403", "Acceso denegado", ErrorData{
		Message: "No tienes permiso para ver esta página.",
	})
}

// ServerError logs err and renders the generic 500 page. The error text is
// only shown outside production.
func (v *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	v.LogFailure(r, err)
	data := ErrorData{Message: "Algo salió mal. Intenta de nuevo más tarde."}
	if !v.isProduction && err != nil {
		data.Detail = err.Error()
	}
	v.Render(w, r, http.StatusInternalServerError, "errors/500", "Error del servidor", data)
}

// LogFailure records a failed request without rendering anything.
func (v *Renderer) LogFailure(r *http.Request, err error) {
	v.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "error", err)
}
