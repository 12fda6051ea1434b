package auth

import (
	"context"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a verified access token says about its bearer. The role
// in it is informational only; authorization always reloads the user.
type Identity struct {
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
}

// Caller is the acting user as currently stored, handed to every gated
// operation.
type Caller struct {
	ID    int64
	Email string
	Role  user.Role
}

func (c Caller) Is(role user.Role) bool {
	return c.Role == role
}

type Claims struct {
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

type ctxKey string

const contextIdentityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextIdentityKey).(Identity)
	return id, ok
}
