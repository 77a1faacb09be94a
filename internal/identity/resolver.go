// Package identity turns a bearer token into the principal of one request.
package identity

import (
	"context"
	"log/slog"

	"github.com/Skotchmaster/inventory_system/internal/cache"
	"github.com/Skotchmaster/inventory_system/internal/models"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
	"github.com/Skotchmaster/inventory_system/pkg/metrics"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
	"github.com/Skotchmaster/inventory_system/pkg/tokens"
)

type TokenVerifier interface {
	Validate(token string) bool
	Claims(token string) (*tokens.Claims, error)
}

type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type UserCache interface {
	Get(ctx context.Context, username string) (cache.User, bool, error)
	Set(ctx context.Context, u cache.User) error
}

type Resolver struct {
	Tokens TokenVerifier
	Users  UserLookup
	// Cache is optional.
	Cache UserCache
}

func NewResolver(tv TokenVerifier, users UserLookup, c UserCache) *Resolver {
	return &Resolver{Tokens: tv, Users: users, Cache: c}
}

// Resolve never fails: anything short of a valid token for a known user with
// a recognised role yields principal.Anonymous. The role comes from the token;
// the user id comes from the store.
func (r *Resolver) Resolve(ctx context.Context, raw string) principal.Principal {
	l := logging.FromContext(ctx).With("component", "identity")

	if raw == "" {
		return r.anonymous(l, "no_header")
	}
	if !r.Tokens.Validate(raw) {
		return r.anonymous(l, "invalid_token")
	}
	claims, err := r.Tokens.Claims(raw)
	if err != nil {
		return r.anonymous(l, "invalid_token", "error", err)
	}

	role, ok := principal.ParseRole(claims.Role)
	if !ok {
		return r.anonymous(l, "bad_role", "role", claims.Role)
	}

	userID, ok := r.lookupUserID(ctx, l, claims.Subject)
	if !ok {
		return r.anonymous(l, "unknown_user", "username", claims.Subject)
	}

	metrics.AuthResolutions.WithLabelValues("resolved").Inc()
	l.Debug("principal_resolved", "username", claims.Subject, "role", role, "user_id", userID)
	return principal.Principal{Username: claims.Subject, Role: role, UserID: userID}
}

func (r *Resolver) lookupUserID(ctx context.Context, l *slog.Logger, username string) (int64, bool) {
	if r.Cache != nil {
		cu, hit, err := r.Cache.Get(ctx, username)
		if err != nil {
			l.Warn("user_cache_error", "username", username, "error", err)
		}
		if hit && cu.ID != 0 {
			return cu.ID, true
		}
	}

	u, err := r.Users.GetUserByUsername(ctx, username)
	if err != nil || u == nil {
		return 0, false
	}

	if r.Cache != nil {
		if err := r.Cache.Set(ctx, cache.User{ID: u.ID, Username: u.Username}); err != nil {
			l.Warn("user_cache_error", "username", username, "error", err)
		}
	}
	return u.ID, true
}

func (r *Resolver) anonymous(l *slog.Logger, outcome string, attrs ...any) principal.Principal {
	metrics.AuthResolutions.WithLabelValues(outcome).Inc()
	l.Debug("principal_anonymous", append([]any{"reason", outcome}, attrs...)...)
	return principal.Anonymous
}
