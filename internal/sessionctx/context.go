// Package sessionctx carries the authenticated user through request
// context. It is the only way handlers learn who is calling; nothing
// reads session state ambiently.
package sessionctx

import (
	"context"

	"github.com/saathihq/saathi-platform/internal/users"
)

type ctxKey string

const userKey ctxKey = "saathi.session_user"

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated user if present.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return nil, false
	}
	u, ok := val.(*users.User)
	return u, ok && u != nil
}
