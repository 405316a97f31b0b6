package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// GetReferral returns the customer's referral code and totals, issuing a code
// on first use
func GetReferral(c *gin.Context) {
	utils.LogInfo("GetReferral called")

	user, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := services.GetReferralSummary(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load referral summary for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Referral details retrieved successfully", summary)
}

// ApplyReferral records who referred the customer
func ApplyReferral(c *gin.Context) {
	utils.LogInfo("ApplyReferral called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid referral request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	referrer, err := services.ApplyReferralCode(config.DB, user.ID, req.Code)
	if err != nil {
		utils.LogError("User %d could not apply referral code %s: %v", user.ID, req.Code, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("User %d applied referral code %s", user.ID, req.Code)
	utils.Success(c, "Referral code applied successfully", gin.H{"referred_by": referrer})
}

// GetReferralHistory pages through the rewards the customer has earned
func GetReferralHistory(c *gin.Context) {
	utils.LogInfo("GetReferralHistory called")

	user, ok := requireUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	entries, err := services.ListReferralTransactions(config.DB, &user.ID, pagination)
	if err != nil {
		utils.LogError("Failed to load referral history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch referral history", nil)
		return
	}
	utils.SendPaginatedResponse(c, "Referral history retrieved successfully", entries, pagination)
}

// GetMembership reports the customer's loyalty tier and progress
func GetMembership(c *gin.Context) {
	utils.LogInfo("GetMembership called")

	user, ok := requireUser(c)
	if !ok {
		return
	}

	membership, err := services.GetMembership(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load membership for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Membership retrieved successfully", membership)
}
