package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
)

type UserLookup interface {
	FindUserByID(ctx context.Context, id int64) (*user.User, error)
}

// RoleDenial is attached to a ROLE_NOT_ALLOWED error.
type RoleDenial struct {
	Allowed []string `json:"allowed_roles"`
	Actual  string   `json:"actual_role,omitempty"`
}

// Gate checks a caller's current role before letting an operation run.
type Gate struct {
	users  UserLookup
	logger *slog.Logger
}

func NewGate(users UserLookup, logger *slog.Logger) *Gate {
	return &Gate{users: users, logger: logger}
}

// Check reloads the user behind id and verifies its stored role is one of
// allowed. The role claimed in the token is ignored.
func (g *Gate) Check(ctx context.Context, allowed Roles, id Identity) (Caller, error) {
	u, err := g.users.FindUserByID(ctx, id.UserID)
	if err != nil {
		g.logger.ErrorContext(ctx, "authorization check failed", "error", err, "user_id", id.UserID)
		return Caller{}, internal.NewInternalError("failed to resolve caller", err)
	}

	if u == nil {
		g.logger.WarnContext(ctx, "access denied: caller no longer exists", "user_id", id.UserID)
		return Caller{}, roleDenied(allowed, "")
	}

	if !allowed.Contains(u.Role) {
		g.logger.WarnContext(ctx, "access denied: role not allowed",
			"user_id", u.ID,
			"role", u.Role,
			"allowed_roles", allowed.Strings())
		return Caller{}, roleDenied(allowed, u.Role)
	}

	return Caller{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func roleDenied(allowed Roles, actual user.Role) error {
	return internal.NewForbiddenError(
		fmt.Sprintf("Permission denied. Please login as [%s]", allowed),
		internal.ErrCodeRoleNotAllowed,
	).WithDetails(RoleDenial{Allowed: allowed.Strings(), Actual: string(actual)})
}

// Authorize runs op only when the caller's current role is allowed. The
// result or error of op is returned unchanged.
func Authorize[T any](ctx context.Context, g *Gate, allowed Roles, id Identity, op func(context.Context, Caller) (T, error)) (T, error) {
	caller, err := g.Check(ctx, allowed, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return op(internal.ContextWithUserID(ctx, caller.ID), caller)
}

func AuthorizeAction(ctx context.Context, g *Gate, allowed Roles, id Identity, op func(context.Context, Caller) error) error {
	_, err := Authorize(ctx, g, allowed, id, func(ctx context.Context, c Caller) (struct{}, error) {
		return struct{}{}, op(ctx, c)
	})
	return err
}
