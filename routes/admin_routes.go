package routes

import (
	"github.com/Govind-619/QuickBite/controllers"
	"github.com/Govind-619/QuickBite/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes the back-office routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware())
	{
		// Dashboard
		admin.GET("/dashboard", controllers.GetDashboardStats)
		admin.GET("/dashboard/top-items", controllers.GetTopSellingItems)

		// Orders
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/export", controllers.AdminExportOrders)
		admin.GET("/orders/:id", controllers.AdminGetOrder)
		admin.PUT("/orders/:id/status", controllers.AdminUpdateOrderStatus)
		admin.PUT("/orders/:id/partner", controllers.AdminAssignDeliveryPartner)

		// Coupons
		admin.GET("/coupons", controllers.AdminListCoupons)
		admin.POST("/coupons", controllers.AdminCreateCoupon)
		admin.PUT("/coupons/:id", controllers.AdminUpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.AdminDeleteCoupon)

		// Menu
		admin.GET("/menu", controllers.AdminListMenu)
		admin.POST("/menu", controllers.AdminCreateMenuItem)
		admin.PATCH("/menu/:id/availability", controllers.AdminSetMenuAvailability)

		// Delivery
		admin.GET("/delivery-partners", controllers.AdminListDeliveryPartners)
		admin.POST("/delivery-partners", controllers.AdminCreateDeliveryPartner)
		admin.PUT("/delivery-partners/:id", controllers.AdminUpdateDeliveryPartner)
		admin.GET("/delivery-charges", controllers.GetDeliveryCharges)
		admin.PUT("/delivery-charges", controllers.UpsertDeliveryCharge)
		admin.DELETE("/delivery-charges/:id", controllers.DeleteDeliveryCharge)

		// Customers and referrals
		admin.GET("/users", controllers.GetUsers)
		admin.PUT("/users/:id/block", controllers.BlockUser)
		admin.PUT("/users/:id/unblock", controllers.UnblockUser)
		admin.GET("/referrals", controllers.AdminListReferrals)
	}
}
