package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// GetUsers lists customers with search and pagination
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")

	pagination := utils.NewPagination(c)
	users, err := services.ListCustomers(config.DB, c.Query("search"), pagination)
	if err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	utils.LogInfo("Retrieved %d users", len(users))
	utils.SendPaginatedResponse(c, "Users retrieved successfully", users, pagination)
}

func setBlocked(c *gin.Context, blocked bool) {
	id, ok := paramID(c, "id", "user ID")
	if !ok {
		return
	}
	if err := services.SetUserBlocked(config.DB, id, blocked); err != nil {
		utils.LogError("Failed to set blocked=%t on user %d: %v", blocked, id, err)
		utils.RespondError(c, err)
		return
	}

	message := "User unblocked successfully"
	if blocked {
		message = "User blocked successfully"
	}
	utils.LogInfo("User %d blocked=%t", id, blocked)
	utils.Success(c, message, gin.H{"user_id": id, "is_blocked": blocked})
}

// BlockUser stops a customer from signing in
func BlockUser(c *gin.Context) {
	utils.LogInfo("BlockUser called")
	setBlocked(c, true)
}

// UnblockUser restores a blocked customer
func UnblockUser(c *gin.Context) {
	utils.LogInfo("UnblockUser called")
	setBlocked(c, false)
}
