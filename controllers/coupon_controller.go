package controllers

import (
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// CouponRequest represents the request body for creating or editing a coupon
type CouponRequest struct {
	Code         string    `json:"code" binding:"required"`
	DiscountType string    `json:"discount_type" binding:"required"`
	Value        float64   `json:"value" binding:"required,gt=0"`
	Expiry       time.Time `json:"expiry" binding:"required"`
	UsageLimit   *int      `json:"usage_limit" binding:"omitempty,gt=0"`
	Active       *bool     `json:"active"`
}

func (r CouponRequest) input() services.CouponInput {
	return services.CouponInput{
		Code:         r.Code,
		DiscountType: r.DiscountType,
		Value:        r.Value,
		Expiry:       r.Expiry,
		UsageLimit:   r.UsageLimit,
		Active:       r.Active,
	}
}

// ValidateCoupon reports the discount a coupon gives on a cart total
func ValidateCoupon(c *gin.Context) {
	utils.LogInfo("ValidateCoupon called")

	var req struct {
		Code      string  `json:"code" binding:"required"`
		CartTotal float64 `json:"cart_total" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon validation request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	eval, err := services.EvaluateCoupon(config.DB, req.Code, req.CartTotal, Now())
	if err != nil {
		utils.LogError("Coupon %s rejected: %v", req.Code, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon %s gives %.2f off %.2f", eval.Code, eval.Discount, eval.CartTotal)
	utils.Success(c, "Coupon is valid", eval)
}

// GetFeaturedCoupon returns the coupon to advertise on the storefront
func GetFeaturedCoupon(c *gin.Context) {
	utils.LogInfo("GetFeaturedCoupon called")

	coupon, err := services.FeaturedCoupon(config.DB, Now())
	if err != nil {
		utils.LogDebug("No featured coupon: %v", err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Featured coupon retrieved successfully", gin.H{"coupon": coupon})
}

// AdminCreateCoupon creates a new coupon
func AdminCreateCoupon(c *gin.Context) {
	utils.LogInfo("AdminCreateCoupon called")

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	coupon, err := services.CreateCoupon(config.DB, req.input(), Now())
	if err != nil {
		utils.LogError("Failed to create coupon %s: %v", req.Code, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon created: %s (id %d)", coupon.Code, coupon.ID)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// AdminUpdateCoupon replaces a coupon's settings
func AdminUpdateCoupon(c *gin.Context) {
	utils.LogInfo("AdminUpdateCoupon called")

	id, ok := paramID(c, "id", "coupon ID")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	coupon, err := services.UpdateCoupon(config.DB, id, req.input())
	if err != nil {
		utils.LogError("Failed to update coupon %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon updated: %s (id %d)", coupon.Code, coupon.ID)
	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// AdminDeleteCoupon removes a coupon
func AdminDeleteCoupon(c *gin.Context) {
	utils.LogInfo("AdminDeleteCoupon called")

	id, ok := paramID(c, "id", "coupon ID")
	if !ok {
		return
	}
	if err := services.DeleteCoupon(config.DB, id); err != nil {
		utils.LogError("Failed to delete coupon %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon %d deleted", id)
	utils.Success(c, "Coupon deleted successfully", nil)
}

// AdminListCoupons pages through coupons; ?active=true hides disabled ones
func AdminListCoupons(c *gin.Context) {
	utils.LogInfo("AdminListCoupons called")

	pagination := utils.NewPagination(c)
	coupons, err := services.ListCoupons(config.DB, pagination, c.Query("active") == "true")
	if err != nil {
		utils.LogError("Failed to list coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	utils.LogInfo("Listed %d coupons", len(coupons))
	utils.SendPaginatedResponse(c, "Coupons retrieved successfully", coupons, pagination)
}
