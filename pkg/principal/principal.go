// Package principal holds the authenticated identity resolved for one request.
package principal

import (
	"context"
	"strings"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole is the single place where role strings coming from tokens or
// the user store are normalized. It accepts any case and an optional
// "ROLE_" prefix.
func ParseRole(s string) (Role, bool) {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.TrimPrefix(r, "ROLE_")
	switch Role(r) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	UserID   int64  `json:"userId"`
}

// Anonymous is the zero Principal; it never passes an authorization check.
var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	if p.Username == "" || p.UserID == 0 {
		return false
	}
	_, ok := ParseRole(string(p.Role))
	return ok
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}

type ctxKey struct{}

func IntoContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns Anonymous when no principal was attached.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
