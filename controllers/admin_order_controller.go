package controllers

import (
	"strconv"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// optionalUintQuery parses an optional numeric query parameter
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		utils.LogError("Invalid %s query: %s", name, raw)
		utils.BadRequest(c, "Invalid "+name, nil)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// orderFilterFromQuery reads ?status, ?user_id, ?partner_id and ?search
func orderFilterFromQuery(c *gin.Context) (services.OrderFilter, bool) {
	filter := services.OrderFilter{Status: c.Query("status"), Search: c.Query("search")}
	var ok bool
	if filter.UserID, ok = optionalUintQuery(c, "user_id"); !ok {
		return filter, false
	}
	if filter.Partner, ok = optionalUintQuery(c, "partner_id"); !ok {
		return filter, false
	}
	return filter, true
}

// AdminListOrders lists all orders with filters and pagination
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	filter, ok := orderFilterFromQuery(c)
	if !ok {
		return
	}
	pagination := utils.NewPagination(c)
	orders, err := services.ListOrders(config.DB, filter, pagination)
	if err != nil {
		utils.LogError("Failed to list orders: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Listed %d of %d orders", len(orders), pagination.Total)
	utils.SendPaginatedResponse(c, "Orders retrieved successfully", orders, pagination)
}

// AdminGetOrder returns any order with its items and partner
func AdminGetOrder(c *gin.Context) {
	utils.LogInfo("AdminGetOrder called")

	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}
	order, err := services.GetOrder(config.DB, orderID)
	if err != nil {
		utils.LogError("Failed to fetch order %d: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", gin.H{"order": order})
}

// AdminUpdateOrderStatus moves an order through its lifecycle
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")

	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status update request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := services.TransitionOrder(config.DB, orderID, req.Status, lifecycleOptions(), req.Reason)
	if err != nil {
		utils.LogError("Failed to move order %d to %s: %v", orderID, req.Status, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d is now %s", order.ID, order.Status)
	utils.Success(c, "Order status updated successfully", gin.H{"order": order})
}

// AdminAssignDeliveryPartner hands an order to a delivery partner
func AdminAssignDeliveryPartner(c *gin.Context) {
	utils.LogInfo("AdminAssignDeliveryPartner called")

	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}
	var req struct {
		PartnerID uint `json:"partner_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid assign partner request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := services.AssignDeliveryPartner(config.DB, orderID, req.PartnerID, lifecycleOptions())
	if err != nil {
		utils.LogError("Failed to assign partner %d to order %d: %v", req.PartnerID, orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Partner %d assigned to order %d", req.PartnerID, order.ID)
	utils.Success(c, "Delivery partner assigned successfully", gin.H{"order": order})
}
