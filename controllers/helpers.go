package controllers

import (
	"strconv"
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// OrderNotifier receives committed order status changes
var OrderNotifier services.Notifier = services.NopNotifier{}

// Now is the clock handlers price and schedule against
var Now = time.Now

func pricingPolicy() services.PricingPolicy {
	if config.AppConfig == nil {
		return services.DefaultPricingPolicy()
	}
	p := config.AppConfig.Pricing
	return services.PricingPolicy{
		CGSTRate:                p.CGSTRate,
		SGSTRate:                p.SGSTRate,
		DeliveryFee:             p.DeliveryFee,
		FreeDeliveryThreshold:   p.FreeDeliveryThreshold,
		ReferralDiscountPercent: p.ReferralDiscountPct,
		ReferralDiscountCap:     p.ReferralDiscountCap,
		ReferrerRewardPercent:   p.ReferrerRewardPct,
		PointsPerUnit:           p.PointsPerUnit,
	}
}

func lifecycleOptions() services.LifecycleOptions {
	policy := pricingPolicy()
	opts := services.LifecycleOptions{
		PointsPerUnit:         policy.PointsPerUnit,
		ReferrerRewardPercent: policy.ReferrerRewardPercent,
		Notifier:              OrderNotifier,
		Now:                   Now,
	}
	if config.AppConfig != nil {
		opts.Strict = config.AppConfig.StrictTransitions
	}
	return opts
}

// currentUser returns the authenticated user, if any
func currentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// requireUser writes a 401 when the request carries no user
func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
	}
	return user, ok
}

// paramID parses a numeric path parameter, writing a 400 when it is invalid
func paramID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.LogError("Invalid %s: %s", label, c.Param(name))
		utils.BadRequest(c, "Invalid "+label, nil)
		return 0, false
	}
	return uint(id), true
}
