package routes

import (
	"github.com/Govind-619/QuickBite/controllers"
	"github.com/Govind-619/QuickBite/middleware"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes the public and customer routes
func initUserRoutes(router *gin.RouterGroup, limiter *utils.ClientLimiter) {
	throttle := utils.RateLimitMiddleware(limiter)

	// Public routes (no authentication required)
	router.POST("/register", throttle, controllers.Register)
	router.POST("/login", throttle, controllers.Login)
	router.GET("/menu", controllers.ListMenu)
	router.GET("/coupons/featured", controllers.GetFeaturedCoupon)
	router.POST("/coupons/validate", throttle, controllers.ValidateCoupon)
	router.POST("/payments/webhook", controllers.PaymentWebhook)

	// Guests and signed-in customers both check out here
	checkout := router.Group("/checkout")
	checkout.Use(throttle, middleware.OptionalAuthMiddleware())
	{
		checkout.POST("/quote", controllers.QuoteCheckout)
		checkout.POST("", controllers.Checkout)
	}

	// Protected routes (authentication required)
	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/orders", controllers.ListUserOrders)
		user.GET("/orders/:id", controllers.GetUserOrder)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)
		user.POST("/orders/:id/cancel", controllers.CancelUserOrder)

		user.POST("/payments/initiate", controllers.InitiatePayment)
		user.POST("/payments/verify", controllers.VerifyPayment)

		user.GET("/referral", controllers.GetReferral)
		user.POST("/referral/apply", throttle, controllers.ApplyReferral)
		user.GET("/referral/history", controllers.GetReferralHistory)

		user.GET("/membership", controllers.GetMembership)
	}
}
