package auth

import (
	"net/http"
)

// RequireUser redirects anonymous requests to /login. It relies on the request
// context middleware having already placed the session user in the context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := UserFromCtx(r.Context()); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects anonymous requests to /login and hands logged-in
// non-admins to forbidden.
func RequireAdmin(forbidden http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := UserFromCtx(r.Context())
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !u.IsAdmin() {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
