package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_system/internal/service"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
	authmw "github.com/Skotchmaster/inventory_system/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	order, err := h.Svc.CreateOrder(ctx, authmw.FromEcho(c), req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.ToOrderDTO(*order))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", "id is not an integer", err)
	}

	order, err := h.Svc.GetOrder(ctx, authmw.FromEcho(c), id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.ToOrderDTO(*order))
}

func (h *OrderHTTP) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_user_orders")

	userID, err := parseID(c, "userId")
	if err != nil {
		return badRequest(l, "get_user_orders_error", "userId is not an integer", err)
	}

	orders, err := h.Svc.ListOrdersForUser(ctx, authmw.FromEcho(c), userID)
	if err != nil {
		return fail(l, "get_user_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.ToOrderDTOs(orders))
}

// UpdateStatus accepts status and adminComments as query parameters, a JSON
// body, or a form; body values win over the query.
func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_status_error", "id is not an integer", err)
	}

	var req transport.UpdateStatusRequest
	binder := &echo.DefaultBinder{}
	if err := binder.BindQueryParams(c, &req); err != nil {
		return badRequest(l, "update_status_error", "invalid query", err)
	}
	if err := binder.BindBody(c, &req); err != nil {
		return badRequest(l, "update_status_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, authmw.FromEcho(c), id, req.Status, req.AdminComments)
	if err != nil {
		return fail(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, transport.ToOrderDTO(*order))
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_order_error", "id is not an integer", err)
	}

	if err := h.Svc.DeleteOrder(ctx, authmw.FromEcho(c), id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.String(http.StatusOK, "Order deleted successfully.")
}

func (h *OrderHTTP) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_history")

	var target *int64
	if raw := c.QueryParam("userId"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(l, "get_history_error", "userId is not an integer", err)
		}
		target = &v
	}

	orders, err := h.Svc.GetHistory(ctx, authmw.FromEcho(c), target)
	if err != nil {
		return fail(l, "get_history_error", err)
	}
	return c.JSON(http.StatusOK, transport.ToOrderDTOs(orders))
}
