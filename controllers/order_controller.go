package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// ListUserOrders lists the signed-in customer's orders, newest first
func ListUserOrders(c *gin.Context) {
	utils.LogInfo("ListUserOrders called")

	user, ok := requireUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	filter := services.OrderFilter{UserID: &user.ID, Status: c.Query("status")}
	orders, err := services.ListOrders(config.DB, filter, pagination)
	if err != nil {
		utils.LogError("Failed to list orders for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Listed %d orders for user %d", len(orders), user.ID)
	utils.SendPaginatedResponse(c, "Orders retrieved successfully", orders, pagination)
}

// GetUserOrder returns one of the customer's orders
func GetUserOrder(c *gin.Context) {
	utils.LogInfo("GetUserOrder called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}

	order, err := services.GetUserOrder(config.DB, user.ID, orderID)
	if err != nil {
		utils.LogError("Order %d not found for user %d: %v", orderID, user.ID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", gin.H{"order": order})
}

// CancelUserOrder cancels an order the kitchen has not started on
func CancelUserOrder(c *gin.Context) {
	utils.LogInfo("CancelUserOrder called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// the reason is optional, so an empty body is fine
	_ = c.ShouldBindJSON(&req)

	order, err := services.CancelOrderByCustomer(config.DB, user.ID, orderID, req.Reason, lifecycleOptions())
	if err != nil {
		utils.LogError("Failed to cancel order %d for user %d: %v", orderID, user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d cancelled by user %d", order.ID, user.ID)
	utils.Success(c, "Order cancelled successfully", gin.H{"order": order})
}
