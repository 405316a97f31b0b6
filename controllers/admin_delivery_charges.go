package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// GetDeliveryCharges returns all delivery charges
func GetDeliveryCharges(c *gin.Context) {
	utils.LogInfo("GetDeliveryCharges called")

	charges, err := services.ListDeliveryCharges(config.DB)
	if err != nil {
		utils.LogError("Failed to fetch delivery charges: %v", err)
		utils.InternalServerError(c, "Failed to fetch delivery charges", nil)
		return
	}

	utils.Success(c, "Delivery charges retrieved successfully", gin.H{
		"delivery_charges": charges,
	})
}

// UpsertDeliveryCharge sets the delivery fee for a pincode
func UpsertDeliveryCharge(c *gin.Context) {
	utils.LogInfo("UpsertDeliveryCharge called")

	var req struct {
		Pincode        string  `json:"pincode" binding:"required"`
		Charge         float64 `json:"charge" binding:"gte=0"`
		MinOrderAmount float64 `json:"min_order_amount" binding:"gte=0"`
		IsActive       *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid delivery charge request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	charge, err := services.UpsertDeliveryCharge(config.DB, services.DeliveryChargeInput{
		Pincode:        req.Pincode,
		Charge:         req.Charge,
		MinOrderAmount: req.MinOrderAmount,
		IsActive:       req.IsActive,
	})
	if err != nil {
		utils.LogError("Failed to save delivery charge for %s: %v", req.Pincode, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Delivery charge for %s set to %.2f", charge.Pincode, charge.Charge)
	utils.Success(c, "Delivery charge saved successfully", gin.H{"delivery_charge": charge})
}

// DeleteDeliveryCharge removes a pincode override
func DeleteDeliveryCharge(c *gin.Context) {
	utils.LogInfo("DeleteDeliveryCharge called")

	id, ok := paramID(c, "id", "delivery charge ID")
	if !ok {
		return
	}
	if err := services.DeleteDeliveryCharge(config.DB, id); err != nil {
		utils.LogError("Failed to delete delivery charge %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Delivery charge %d deleted", id)
	utils.Success(c, "Delivery charge deleted successfully", nil)
}

// PartnerRequest represents the body for adding or editing a delivery partner
type PartnerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	IsActive *bool  `json:"is_active"`
}

func (r PartnerRequest) input() services.PartnerInput {
	return services.PartnerInput{Name: r.Name, Phone: r.Phone, Email: r.Email, IsActive: r.IsActive}
}

// AdminCreateDeliveryPartner registers a delivery partner
func AdminCreateDeliveryPartner(c *gin.Context) {
	utils.LogInfo("AdminCreateDeliveryPartner called")

	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid partner request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	partner, err := services.CreateDeliveryPartner(config.DB, req.input())
	if err != nil {
		utils.LogError("Failed to create delivery partner %s: %v", req.Phone, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Delivery partner created: %s (id %d)", partner.Name, partner.ID)
	utils.Created(c, "Delivery partner created successfully", gin.H{"partner": partner})
}

// AdminListDeliveryPartners lists partners, optionally by ?status
func AdminListDeliveryPartners(c *gin.Context) {
	utils.LogInfo("AdminListDeliveryPartners called")

	partners, err := services.ListDeliveryPartners(config.DB, c.Query("status"))
	if err != nil {
		utils.LogError("Failed to list delivery partners: %v", err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Delivery partners retrieved successfully", gin.H{"partners": partners})
}

// AdminUpdateDeliveryPartner edits a partner's details
func AdminUpdateDeliveryPartner(c *gin.Context) {
	utils.LogInfo("AdminUpdateDeliveryPartner called")

	id, ok := paramID(c, "id", "partner ID")
	if !ok {
		return
	}
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid partner request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	partner, err := services.UpdateDeliveryPartner(config.DB, id, req.input())
	if err != nil {
		utils.LogError("Failed to update delivery partner %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Delivery partner %d updated", partner.ID)
	utils.Success(c, "Delivery partner updated successfully", gin.H{"partner": partner})
}
