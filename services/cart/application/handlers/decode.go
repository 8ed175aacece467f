package handlers

import (
	"fmt"
	"net/http"

	"github.com/ghuser/gamercart/pkg/auth"
	pkgvalidator "github.com/ghuser/gamercart/pkg/validator"
)

// decode resolves the session user and the validated form. On failure it has
// already written the response.
func decode[T any](h *CartHandler, w http.ResponseWriter, r *http.Request) (*auth.SessionUser, *T, bool) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, nil, false
	}
	form, fieldErrs, err := pkgvalidator.DecodeForm[T](r)
	if err != nil {
		h.errPage.Page(w, r, err)
		return nil, nil, false
	}
	if fieldErrs != nil {
		h.errPage.Page(w, r, fmt.Errorf("%w: %v", pkgvalidator.ErrInvalidForm, fieldErrs))
		return nil, nil, false
	}
	return user, form, true
}
