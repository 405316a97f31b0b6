package services

import (
	"math"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// Tier is a membership level
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// Lifetime spending needed to reach each tier
const (
	SilverThreshold   = 2000.0
	GoldThreshold     = 5000.0
	PlatinumThreshold = 15000.0
)

// DefaultPointsPerUnit awards one point per ten currency units
const DefaultPointsPerUnit = 0.1

// tierLadder is ordered from the highest threshold down
var tierLadder = []struct {
	tier      Tier
	threshold float64
}{
	{TierPlatinum, PlatinumThreshold},
	{TierGold, GoldThreshold},
	{TierSilver, SilverThreshold},
	{TierBronze, 0},
}

// TierBenefits are the perks a tier unlocks at checkout
type TierBenefits struct {
	Tier            Tier    `json:"tier"`
	DiscountPercent float64 `json:"discount_percent"`
	FreeDelivery    bool    `json:"free_delivery"`
}

// TierProgress describes how far a customer is from the next tier
type TierProgress struct {
	Tier             Tier    `json:"tier"`
	LifetimeSpending float64 `json:"lifetime_spending"`
	NextTier         *Tier   `json:"next_tier,omitempty"`
	NextThreshold    float64 `json:"next_threshold,omitempty"`
	AmountToNext     float64 `json:"amount_to_next"`
}

// TierRank orders tiers; unknown tiers rank below BRONZE
func TierRank(t Tier) int {
	switch t {
	case TierBronze:
		return 0
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	}
	return -1
}

// TierFor maps lifetime spending to a tier
func TierFor(spending float64) Tier {
	for _, step := range tierLadder {
		if spending >= step.threshold {
			return step.tier
		}
	}
	return TierBronze
}

// BenefitsFor returns the checkout perks of a tier
func BenefitsFor(t Tier) TierBenefits {
	switch t {
	case TierSilver:
		return TierBenefits{Tier: t, DiscountPercent: 2}
	case TierGold:
		return TierBenefits{Tier: t, DiscountPercent: 5, FreeDelivery: true}
	case TierPlatinum:
		return TierBenefits{Tier: t, DiscountPercent: 10, FreeDelivery: true}
	}
	return TierBenefits{Tier: TierBronze}
}

// EffectiveTier returns the stored tier of a user, falling back to BRONZE
func EffectiveTier(user models.User) Tier {
	t := Tier(user.MembershipTier)
	if TierRank(t) < 0 {
		return TierBronze
	}
	return t
}

// maxTier keeps a user from being demoted
func maxTier(a, b Tier) Tier {
	if TierRank(b) > TierRank(a) {
		return b
	}
	return a
}

// PointsFor converts spend into membership points, rounding down
func PointsFor(amount, pointsPerUnit float64) int64 {
	if amount <= 0 || pointsPerUnit <= 0 {
		return 0
	}
	return int64(math.Floor(amount*pointsPerUnit + 1e-9))
}

// ApplyOrder adds orderTotal to the user's lifetime spending, awards points
// and recomputes the tier. Non-positive totals leave the user unchanged.
func ApplyOrder(user models.User, orderTotal, pointsPerUnit float64) models.User {
	if orderTotal <= 0 {
		return user
	}
	user.LifetimeSpending = utils.RoundMoney(user.LifetimeSpending + orderTotal)
	user.MembershipPoints += PointsFor(orderTotal, pointsPerUnit)
	user.MembershipTier = string(maxTier(EffectiveTier(user), TierFor(user.LifetimeSpending)))
	return user
}

// NextTierProgress reports the next tier and the spend still needed for it
func NextTierProgress(spending float64) TierProgress {
	current := TierFor(spending)
	progress := TierProgress{Tier: current, LifetimeSpending: utils.RoundMoney(spending)}
	for i := len(tierLadder) - 1; i >= 0; i-- {
		step := tierLadder[i]
		if TierRank(step.tier) > TierRank(current) {
			next := step.tier
			progress.NextTier = &next
			progress.NextThreshold = step.threshold
			progress.AmountToNext = utils.RoundMoney(step.threshold - spending)
			break
		}
	}
	return progress
}

// RecordOrderSpend credits a delivered order to its customer's lifetime
// spending exactly once. Guest and cancelled orders are ignored.
func RecordOrderSpend(tx *gorm.DB, order *models.Order, pointsPerUnit float64) (bool, error) {
	if order.UserID == nil || order.Status == models.OrderStatusCancelled || order.GrandTotal <= 0 {
		return false, nil
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND spending_recorded = ?", order.ID, false).
		Update("spending_recorded", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		utils.LogDebug("Spending for order %d already recorded", order.ID)
		return false, nil
	}
	order.SpendingRecorded = true

	var user models.User
	if err := tx.First(&user, *order.UserID).Error; err != nil {
		return false, err
	}

	points := PointsFor(order.GrandTotal, pointsPerUnit)
	res = tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"lifetime_spending": gorm.Expr("lifetime_spending + ?", utils.RoundMoney(order.GrandTotal)),
		"membership_points": gorm.Expr("membership_points + ?", points),
	})
	if res.Error != nil {
		return false, res.Error
	}

	if err := tx.First(&user, user.ID).Error; err != nil {
		return false, err
	}
	tier := maxTier(EffectiveTier(user), TierFor(user.LifetimeSpending))
	if string(tier) != user.MembershipTier {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("membership_tier", string(tier)).Error; err != nil {
			return false, err
		}
		utils.LogInfo("User %d promoted to %s", user.ID, tier)
	}

	utils.LogInfo("Recorded spend %.2f (%d points) for user %d from order %d",
		order.GrandTotal, points, user.ID, order.ID)
	return true, nil
}
