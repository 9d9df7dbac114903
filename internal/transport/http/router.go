package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/handlers"
	"github.com/velora-labs/storefront/internal/jwtmiddleware"
	"github.com/velora-labs/storefront/internal/metrics"
)

type Deps struct {
	DB              *gorm.DB
	JWTSecret       []byte
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	BrandHandler    *handlers.BrandHandler
	OrderHandler    *handlers.OrderHandler
	PaymentHandler  *handlers.PaymentHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)

	brands := v1.Group("/brands")
	brands.GET("", d.BrandHandler.GetBrands)
	brands.GET("/:id", d.BrandHandler.GetBrand)

	auth := jwtmiddleware.RequireAuth(d.JWTSecret)
	managesOrders := jwtmiddleware.RequirePermission(jwtmiddleware.PermManageOrders)

	admin := v1.Group("/admin", auth, jwtmiddleware.RequireAdmin())
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.POST("/brands", d.BrandHandler.CreateBrand)
	admin.PATCH("/brands/:id", d.BrandHandler.PatchBrand)
	admin.DELETE("/brands/:id", d.BrandHandler.DeleteBrand)

	orders := v1.Group("/orders", auth)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder, managesOrders)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateOrderStatus, managesOrders)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, managesOrders)

	payments := v1.Group("/payments")
	// The webhook authenticates by signature, not bearer token.
	payments.POST("/webhook", d.PaymentHandler.Webhook)
	payments.POST("/create-payment-intent", d.PaymentHandler.CreatePaymentIntent, auth, managesOrders)
	payments.POST("/initiate-payment", d.PaymentHandler.InitiatePayment, auth, managesOrders)
	payments.POST("/capture-paypal-payment", d.PaymentHandler.CapturePayPalPayment, auth, managesOrders)
}
