// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/handlers"
	"github.com/javajoker/geomarket/internal/metrics"
	"github.com/javajoker/geomarket/internal/middleware"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Product  *handlers.ProductHandler
	Merchant *handlers.MerchantHandler
	Order    *handlers.OrderHandler
}

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	feedService := services.NewFeedService(db, cfg)
	merchantService := services.NewMerchantService(db)
	orderService := services.NewOrderService(db)

	// Initialize handlers
	h := Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Product:  handlers.NewProductHandler(feedService, cfg.Feed),
		Merchant: handlers.NewMerchantHandler(merchantService),
		Order:    handlers.NewOrderHandler(orderService),
	}

	return New(cfg, h, middleware.AuditLogMiddleware(db))
}

// New builds the engine around h. extra middleware runs after the global
// chain and before any route.
func New(cfg *config.Config, h Handlers, extra ...gin.HandlerFunc) *gin.Engine {
	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst))
	r.Use(extra...)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	authLimit := middleware.AuthRateLimit(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)

	// User identity
	user := r.Group("/user")
	user.Use(authLimit)
	{
		user.POST("/register", h.Auth.RegisterUser)
		user.POST("/sign_in", h.Auth.SignInUser)
	}

	// Merchant identity and inventory
	merchant := r.Group("/merchant")
	{
		merchant.POST("/register", authLimit, h.Auth.RegisterMerchant)
		merchant.POST("/sign_in", authLimit, h.Auth.SignInMerchant)

		inventory := merchant.Group("")
		inventory.Use(middleware.MerchantRequired()...)
		{
			inventory.POST("/stocks", h.Merchant.CreateStock)
			inventory.POST("/products", h.Merchant.CreateProduct)
			inventory.POST("/add/product/stock/:stock_id", h.Merchant.AddStockLine)
			inventory.PUT("/product/stock/:stock_id/:sku_id", h.Merchant.UpdateStockLine)
		}
	}

	// Catalog
	products := r.Group("/products")
	{
		products.GET("/feed", h.Product.GetFeed)
		products.GET("/search", h.Product.Search)
		products.GET("/categories", h.Product.GetCategories)
		products.GET("/merchants", h.Product.GetMerchants)
		products.GET("/:ean/offers", h.Product.GetOffers)
	}

	// Cart and orders
	shopper := r.Group("")
	shopper.Use(middleware.UserRequired()...)
	{
		shopper.POST("/cart", h.Order.CreateCart)
		shopper.GET("/cart", h.Order.GetCart)
		shopper.POST("/order", h.Order.Checkout)
		shopper.GET("/users/orders", h.Order.GetUserOrders)

		shopper.GET("/orders/:order_id", h.Order.GetOrder)
		shopper.DELETE("/orders/:order_id", h.Order.DeleteOrder)
		shopper.POST("/orders/:order_id/items", h.Order.AddItem)
		shopper.GET("/orders/:order_id/items", h.Order.GetItems)

		shopper.PUT("/order-items/:item_id", h.Order.UpdateItem)
		shopper.DELETE("/order-items/:item_id", h.Order.DeleteItem)
	}

	return r
}
