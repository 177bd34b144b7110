package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercatus/webstore/internal/handlers"
	authmw "github.com/mercatus/webstore/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *authmw.Middleware
	AuthHandler     *handlers.AuthHandler
	CustomerHandler *handlers.CustomerHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/token", d.AuthHandler.Token)
	e.POST("/customers", d.CustomerHandler.Register)
	e.GET("/customers/:id", d.CustomerHandler.GetCustomer, d.Auth.RequireAuth)

	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/:id", d.ProductHandler.GetProduct)
	e.POST("/products", d.ProductHandler.CreateProduct, d.Auth.RequireAuth)

	e.GET("/search", d.SearchHandler.Search)

	orders := e.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
}
