// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains the identity supplied by the bearer token.
// The service never authenticates; it only consumes this resolved identity.
type UserContext struct {
	UserID    string
	Role      string
	BranchID  string // empty when the caller has no assigned branch
	SessionID string
}

// IsAdmin reports whether the caller holds the administrator role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Role names carried in tokens.
const (
	RoleAdmin  = "admin"
	RoleBranch = "branch"
)

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetBranchID returns the caller's assigned branch or empty string.
func GetBranchID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.BranchID
	}
	return ""
}
