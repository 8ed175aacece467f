package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const userKey contextKey = "session_user"

// ErrNoUser is returned when no logged-in user exists in the request context.
var ErrNoUser = errors.New("no session user in context")

// UserFromCtx returns the session user attached by the request context
// middleware, or ErrNoUser for anonymous requests.
func UserFromCtx(ctx context.Context) (*SessionUser, error) {
	u, ok := ctx.Value(userKey).(*SessionUser)
	if !ok || u == nil || u.ID == 0 {
		return nil, ErrNoUser
	}
	return u, nil
}

// WithUser returns a new context with the given user attached.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}
