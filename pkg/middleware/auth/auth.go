package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_system/pkg/principal"
)

const (
	bearerPrefix = "Bearer "
	principalKey = "principal"
)

type Resolver interface {
	Resolve(ctx context.Context, token string) principal.Principal
}

type ValidatorFunc func(p principal.Principal) error

// Authenticate resolves the bearer token, if any, and attaches the principal
// to both the echo context and the request context. It never rejects a
// request; the Require* guards do that.
func Authenticate(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			p := r.Resolve(req.Context(), bearerToken(req.Header.Get(echo.HeaderAuthorization)))

			c.Set(principalKey, p)
			c.SetRequest(req.WithContext(principal.IntoContext(req.Context(), p)))
			return next(c)
		}
	}
}

// bearerToken returns "" unless the header starts with the exact "Bearer "
// prefix.
func bearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func FromEcho(c echo.Context) principal.Principal {
	if p, ok := c.Get(principalKey).(principal.Principal); ok {
		return p
	}
	return principal.FromContext(c.Request().Context())
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return requireWithValidator(next, nil)
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return requireWithValidator(next, func(p principal.Principal) error {
		if !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := FromEcho(c)
		if !p.Authenticated() {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if validator != nil {
			if err := validator(p); err != nil {
				return err
			}
		}
		return next(c)
	}
}
