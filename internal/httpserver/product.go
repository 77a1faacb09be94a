package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_system/internal/service"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/internal/util"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
	authmw "github.com/Skotchmaster/inventory_system/pkg/middleware/auth"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func pageParams(c echo.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return util.Offset(page, size)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.List(ctx, authmw.FromEcho(c), offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.ProductPage{Total: total, Products: items})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.Search(ctx, authmw.FromEcho(c), c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.ProductPage{Total: total, Products: items})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_error", "id is not an integer", err)
	}
	prod, err := h.Svc.Get(ctx, authmw.FromEcho(c), id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}
	prod, err := h.Svc.Create(ctx, authmw.FromEcho(c), req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_product_error", "id is not an integer", err)
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_product_error", "invalid body", err)
	}
	prod, err := h.Svc.Update(ctx, authmw.FromEcho(c), id, req)
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product_error", "id is not an integer", err)
	}
	if err := h.Svc.Delete(ctx, authmw.FromEcho(c), id); err != nil {
		return fail(l, "delete_product_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

type SupplierHTTP struct {
	Svc *service.SupplierService
}

func (h *SupplierHTTP) GetSuppliers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supplier.get_suppliers")

	out, err := h.Svc.List(ctx, authmw.FromEcho(c))
	if err != nil {
		return fail(l, "get_suppliers_error", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SupplierHTTP) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supplier.get_supplier")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_supplier_error", "id is not an integer", err)
	}
	s, err := h.Svc.Get(ctx, authmw.FromEcho(c), id)
	if err != nil {
		return fail(l, "get_supplier_error", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SupplierHTTP) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supplier.create_supplier")

	var req transport.SupplierRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_supplier_error", "invalid body", err)
	}
	s, err := h.Svc.Create(ctx, authmw.FromEcho(c), req)
	if err != nil {
		return fail(l, "create_supplier_error", err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SupplierHTTP) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supplier.update_supplier")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_supplier_error", "id is not an integer", err)
	}
	var req transport.SupplierRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_supplier_error", "invalid body", err)
	}
	s, err := h.Svc.Update(ctx, authmw.FromEcho(c), id, req)
	if err != nil {
		return fail(l, "update_supplier_error", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SupplierHTTP) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supplier.delete_supplier")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_supplier_error", "id is not an integer", err)
	}
	if err := h.Svc.Delete(ctx, authmw.FromEcho(c), id); err != nil {
		return fail(l, "delete_supplier_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
