package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_system/internal/service"
	"github.com/Skotchmaster/inventory_system/internal/transport"
)

var sentinels = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrAccessDenied, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// fail logs err under event and turns it into the HTTP error the client
// sees. Unknown errors become a bare 500; access denials never carry detail.
func fail(l *slog.Logger, event string, err error) error {
	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		details := strings.TrimPrefix(err.Error(), s.err.Error()+": ")
		if s.code == http.StatusForbidden {
			details = "forbidden"
		}
		l.Warn(event, "status", s.code, "reason", details, "error", err)
		return echo.NewHTTPError(s.code, details)
	}

	l.Error(event, "status", http.StatusInternalServerError, "reason", "internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func kindOf(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	if code >= 500 {
		return "internal"
	}
	return strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

// ErrorHandler renders every error as {"error": kind, "details": message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	details := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < 500 {
			details = message(he.Message)
		}
	}

	body := transport.ErrorResponse{Error: kindOf(code), Details: details}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

func message(m any) string {
	switch v := m.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
