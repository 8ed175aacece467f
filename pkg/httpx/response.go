package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorBody is the JSON shape of every error answered by a JSON endpoint.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// JSON writes v with the given status. Storefront JSON always depends on the
// session (cart badge, health of this instance), so responses are never cached.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes an ErrorBody. message is shown to shoppers as is, so it is
// expected to be one of the Spanish user-facing messages.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message, Status: status})
}

// WantsJSON reports whether the client asked for JSON rather than a page,
// either through Accept or because it is a fetch() from the storefront script.
func WantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "fetch" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
