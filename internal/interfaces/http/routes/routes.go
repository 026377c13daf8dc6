// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Handlers groups every API handler
type Handlers struct {
	Auth     *handlers.AuthHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
	Order    *handlers.OrderHandler
}

// Deps carries what the route groups need besides handlers
type Deps struct {
	Tokens        *auth.JWTManager
	AuthRateLimit gin.HandlerFunc
}

// SetupRoutes mounts all API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h Handlers, d Deps) {
	SetupAuthRoutes(rg, h.Auth, d)
	SetupProductRoutes(rg, h.Product, d)
	SetupCartRoutes(rg, h.Cart, d)
	SetupWishlistRoutes(rg, h.Wishlist, d)
	SetupOrderRoutes(rg, h.Order, d)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, d Deps) {
	authGroup := rg.Group("/auth")
	{
		public := authGroup.Group("")
		if d.AuthRateLimit != nil {
			public.Use(d.AuthRateLimit)
		}
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
		public.POST("/refresh", h.RefreshToken)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware(d.Tokens))
		protected.GET("/profile", h.GetProfile)
	}
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler, d Deps) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Tokens), middleware.AdminMiddleware())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id/stock", h.UpdateStock)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, d Deps) {
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(d.Tokens))
	{
		cart.GET("", h.GetCart)
		cart.GET("/count", h.GetCount)
		cart.POST("/add", h.AddToCart)
		cart.PUT("/item/:ref", h.UpdateCartItem)
		cart.DELETE("/item/:ref", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/merge", h.MergeCart)
		cart.POST("/validate", h.ValidateCart)
	}
}

// SetupWishlistRoutes sets up wishlist routes
func SetupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler, d Deps) {
	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware(d.Tokens))
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("/add", h.AddToWishlist)
		wishlist.POST("/toggle", h.ToggleWishlist)
		wishlist.DELETE("/item/:ref", h.RemoveFromWishlist)
		wishlist.DELETE("/all", h.ClearWishlist)
		wishlist.POST("/merge", h.MergeWishlist)
		wishlist.GET("/check/:ref", h.CheckWishlist)
		wishlist.POST("/move-to-cart/:ref", h.MoveToCart)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, d Deps) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(d.Tokens))
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.GetOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/invoice", h.DownloadInvoice)
	}
}
