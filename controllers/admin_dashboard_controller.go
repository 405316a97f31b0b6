package controllers

import (
	"strconv"
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// periodStart maps ?period onto the start of the reporting window
func periodStart(period string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "", "day":
		return today, true
	case "week":
		return today.AddDate(0, 0, -6), true
	case "month":
		return today.AddDate(0, -1, 0), true
	case "year":
		return today.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// GetDashboardStats returns trading totals for ?period (day, week, month, year)
func GetDashboardStats(c *gin.Context) {
	utils.LogInfo("GetDashboardStats called")

	since, ok := periodStart(c.Query("period"), Now())
	if !ok {
		utils.LogError("Invalid dashboard period: %s", c.Query("period"))
		utils.BadRequest(c, "Invalid period. Must be one of: day, week, month, year", nil)
		return
	}

	stats, err := services.GetDashboardStats(config.DB, since)
	if err != nil {
		utils.LogError("Failed to compute dashboard stats: %v", err)
		utils.InternalServerError(c, "Failed to fetch dashboard statistics", nil)
		return
	}
	utils.Success(c, "Dashboard statistics retrieved successfully", stats)
}

// GetTopSellingItems returns the best selling dishes for ?period
func GetTopSellingItems(c *gin.Context) {
	utils.LogInfo("GetTopSellingItems called")

	since, ok := periodStart(c.Query("period"), Now())
	if !ok {
		utils.LogError("Invalid dashboard period: %s", c.Query("period"))
		utils.BadRequest(c, "Invalid period. Must be one of: day, week, month, year", nil)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > utils.MaxPaginationLimit {
		limit = 10
	}

	items, err := services.TopSellingItems(config.DB, since, limit)
	if err != nil {
		utils.LogError("Failed to rank menu items: %v", err)
		utils.InternalServerError(c, "Failed to fetch top selling items", nil)
		return
	}
	utils.Success(c, "Top selling items retrieved successfully", gin.H{"items": items})
}
