// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/apparel-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/apparel-storefront/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth    *handlers.AuthHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
	Coupon  *handlers.CouponHandler
	Order   *handlers.OrderHandler
	Invoice *handlers.InvoiceHandler
	Payment *handlers.PaymentHandler
	Content *handlers.ContentHandler
	Upload  *handlers.UploadHandler
}

// SetupRoutes registers the public, authenticated and admin API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	requireAuth := middleware.AuthMiddleware(tokens)

	setupAuthRoutes(rg, h, requireAuth)
	setupPublicRoutes(rg, h)

	admin := rg.Group("/admin")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	setupAdminRoutes(admin, h)

	// home content keeps its admin route beside the public one
	rg.PUT("/home-content/admin", requireAuth, middleware.AdminMiddleware(), h.Content.UpdateHomeContent)
}

func setupAuthRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)

		protected := auth.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", h.Auth.GetCurrentUser)
			protected.PUT("/password", h.Auth.ChangePassword)
		}
	}
}

func setupPublicRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/categories", h.Product.GetCategories)
		products.GET("/:id", h.Product.GetProduct)
		products.GET("/:id/stock", h.Product.CheckStock)
	}

	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.GET("/count", h.Cart.GetCartCount)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:productId/:size", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:productId/:size", h.Cart.RemoveFromCart)
		cart.POST("/coupon", h.Cart.ApplyCoupon)
		cart.DELETE("/coupon", h.Cart.RemoveCoupon)
	}

	rg.POST("/coupons/validate", h.Coupon.ValidateCoupon)

	rg.POST("/checkout", h.Order.Checkout)
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("/invoice/:invoiceNumber", h.Order.GetOrderByInvoice)
		orders.GET("/invoice/:invoiceNumber/pdf", h.Invoice.DownloadInvoice)
		orders.GET("/invoice/:invoiceNumber/html", h.Invoice.PreviewInvoice)
	}

	payments := rg.Group("/payments")
	{
		payments.GET("/razorpay-key", h.Payment.GetRazorpayKey)
		payments.POST("/create-order", h.Payment.CreatePaymentOrder)
		payments.POST("/verify", h.Payment.VerifyPayment)
	}

	rg.GET("/home-content", h.Content.GetHomeContent)
}

func setupAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	products := admin.Group("/products")
	{
		products.GET("", h.Product.AdminGetProducts)
		products.POST("", h.Product.AdminCreateProduct)
		products.GET("/low-stock", h.Product.AdminLowStock)
		products.GET("/:id", h.Product.AdminGetProduct)
		products.PUT("/:id", h.Product.AdminUpdateProduct)
		products.DELETE("/:id", h.Product.AdminDeleteProduct)
		products.PUT("/:id/stock", h.Product.AdminUpdateStock)
	}

	coupons := admin.Group("/coupons")
	{
		coupons.GET("", h.Coupon.AdminGetCoupons)
		coupons.POST("", h.Coupon.AdminCreateCoupon)
		coupons.GET("/:id", h.Coupon.AdminGetCoupon)
		coupons.PUT("/:id", h.Coupon.AdminUpdateCoupon)
		coupons.DELETE("/:id", h.Coupon.AdminDeleteCoupon)
	}

	orders := admin.Group("/orders")
	{
		orders.GET("", h.Order.AdminGetOrders)
		orders.GET("/stats", h.Order.AdminGetOrderStats)
		orders.GET("/:id", h.Order.AdminGetOrder)
		orders.PUT("/:id/status", h.Order.AdminUpdateOrderStatus)
		orders.POST("/:id/cancel", h.Order.AdminCancelOrder)
	}

	uploads := admin.Group("/uploads")
	{
		uploads.POST("/image", h.Upload.UploadImage)
		uploads.POST("/images", h.Upload.UploadImages)
		uploads.DELETE("/:filename", h.Upload.DeleteImage)
	}
}
