package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_system/internal/service"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindCredentials(c, &req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	if _, err := h.Svc.Register(ctx, req); err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "username", req.Username)
	return c.String(http.StatusOK, "User registered successfully")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindCredentials(c, &req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	token, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "username", req.Username)
	return c.String(http.StatusOK, token)
}

// bindCredentials accepts query parameters as well as a JSON or form body.
// Body fields win when both are sent.
func bindCredentials(c echo.Context, dst any) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindQueryParams(c, dst); err != nil {
		return err
	}
	return binder.BindBody(c, dst)
}
