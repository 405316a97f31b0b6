package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// AdminListReferrals pages through the referral ledger; ?referrer_id narrows
// it to one customer
func AdminListReferrals(c *gin.Context) {
	utils.LogInfo("AdminListReferrals called")

	referrerID, ok := optionalUintQuery(c, "referrer_id")
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	entries, err := services.ListReferralTransactions(config.DB, referrerID, pagination)
	if err != nil {
		utils.LogError("Failed to list referral transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch referrals", nil)
		return
	}

	utils.LogInfo("Listed %d referral transactions", len(entries))
	utils.SendPaginatedResponse(c, "Referral transactions retrieved successfully", entries, pagination)
}
