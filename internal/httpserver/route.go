package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/inventory_system/pkg/logging"
	"github.com/Skotchmaster/inventory_system/pkg/metrics"
	authmw "github.com/Skotchmaster/inventory_system/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/inventory_system/pkg/middleware/logging"
)

type Deps struct {
	Auth      *AuthHTTP
	Orders    *OrderHTTP
	Products  *ProductHTTP
	Suppliers *SupplierHTTP
	Resolver  authmw.Resolver
	// Ready is polled by /health/ready; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *slog.Logger
}

// New builds the echo instance with the full middleware chain and every
// route registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.CORS())
	e.Use(authmw.Authenticate(d.Resolver))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("readiness_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	orders := api.Group("/orders", authmw.RequireAuth)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("/history", d.Orders.GetHistory)
	orders.GET("/user/:userId", d.Orders.GetUserOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.DELETE("/:id", d.Orders.DeleteOrder)
	orders.PUT("/:id/status", d.Orders.UpdateStatus, authmw.RequireAdmin)

	products := api.Group("/products", authmw.RequireAuth)
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct, authmw.RequireAdmin)
	products.PUT("/:id", d.Products.UpdateProduct, authmw.RequireAdmin)
	products.DELETE("/:id", d.Products.DeleteProduct, authmw.RequireAdmin)

	suppliers := api.Group("/suppliers", authmw.RequireAuth)
	suppliers.GET("", d.Suppliers.GetSuppliers)
	suppliers.GET("/:id", d.Suppliers.GetSupplier)
	suppliers.POST("", d.Suppliers.CreateSupplier, authmw.RequireAdmin)
	suppliers.PUT("/:id", d.Suppliers.UpdateSupplier, authmw.RequireAdmin)
	suppliers.DELETE("/:id", d.Suppliers.DeleteSupplier, authmw.RequireAdmin)
}
