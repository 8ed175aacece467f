package auth

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie name of the storefront session.
const SessionName = "gamercart_session"

const sessionUserKey = "user"

// Roles stored in usuarios.rol.
const (
	RoleCustomer = "cliente"
	RoleAdmin    = "admin"
)

// SessionUser is the only value the session record holds.
type SessionUser struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the user may enter /admin.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func init() {
	gob.Register(SessionUser{})
}

// CurrentUser reads the user from the request's session. A missing, expired or
// undecodable session yields (nil, nil); only store failures are errors.
func CurrentUser(store sessions.Store, r *http.Request) (*SessionUser, error) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	u, ok := session.Values[sessionUserKey].(SessionUser)
	if !ok || u.ID == 0 {
		return nil, nil
	}
	return &u, nil
}

// discarder is implemented by stores that keep a server-side record per
// session id.
type discarder interface {
	discard(ctx context.Context, id string) error
}

// Login writes u into the session and saves it under a fresh id. Any id the
// visitor already had is dropped, with its record, so a session id planted
// before login never becomes an authenticated one.
func Login(store sessions.Store, w http.ResponseWriter, r *http.Request, u SessionUser) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session.ID != "" {
		if d, ok := store.(discarder); ok {
			if err := d.discard(r.Context(), session.ID); err != nil {
				return fmt.Errorf("rotate session: %w", err)
			}
		}
		session.ID = ""
	}
	session.Values[sessionUserKey] = u
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout destroys the session record and expires the cookie.
func Logout(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return fmt.Errorf("load session: %w", err)
	}
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
