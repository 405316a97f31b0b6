package services

import (
	"testing"

	"github.com/Govind-619/QuickBite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		spending float64
		want     Tier
	}{
		{0, TierBronze},
		{SilverThreshold - 0.01, TierBronze},
		{SilverThreshold, TierSilver},
		{GoldThreshold - 1, TierSilver},
		{6000, TierGold},
		{PlatinumThreshold, TierPlatinum},
		{1e7, TierPlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.spending), "spending %.2f", tt.spending)
	}
}

func TestTierForIsOrderPreserving(t *testing.T) {
	prev := TierFor(0)
	for spend := 0.0; spend <= 20000; spend += 250 {
		current := TierFor(spend)
		assert.GreaterOrEqual(t, TierRank(current), TierRank(prev))
		prev = current
	}
}

func TestBenefitsFor(t *testing.T) {
	assert.Equal(t, TierBenefits{Tier: TierBronze}, BenefitsFor(TierBronze))
	assert.Equal(t, 2.0, BenefitsFor(TierSilver).DiscountPercent)
	assert.False(t, BenefitsFor(TierSilver).FreeDelivery)
	assert.True(t, BenefitsFor(TierGold).FreeDelivery)
	assert.Equal(t, 10.0, BenefitsFor(TierPlatinum).DiscountPercent)
	assert.Equal(t, TierBronze, BenefitsFor(Tier("DIAMOND")).Tier)
}

func TestApplyOrder(t *testing.T) {
	user := models.User{MembershipTier: string(TierBronze)}

	user = ApplyOrder(user, 6000, DefaultPointsPerUnit)
	assert.Equal(t, 6000.0, user.LifetimeSpending)
	assert.Equal(t, string(TierGold), user.MembershipTier)
	assert.Equal(t, int64(600), user.MembershipPoints)

	unchanged := ApplyOrder(user, -50, DefaultPointsPerUnit)
	assert.Equal(t, user, unchanged)
}

func TestApplyOrderNeverDemotes(t *testing.T) {
	user := models.User{MembershipTier: string(TierPlatinum), LifetimeSpending: 100}

	user = ApplyOrder(user, 50, DefaultPointsPerUnit)
	assert.Equal(t, string(TierPlatinum), user.MembershipTier)

	spent := 0.0
	walker := models.User{}
	for _, total := range []float64{120, 900, 15, 2500, 40, 9000} {
		walker = ApplyOrder(walker, total, DefaultPointsPerUnit)
		assert.GreaterOrEqual(t, walker.LifetimeSpending, spent)
		spent = walker.LifetimeSpending
		assert.Equal(t, string(TierFor(spent)), walker.MembershipTier)
	}
}

func TestNextTierProgress(t *testing.T) {
	progress := NextTierProgress(1500)
	assert.Equal(t, TierBronze, progress.Tier)
	require.NotNil(t, progress.NextTier)
	assert.Equal(t, TierSilver, *progress.NextTier)
	assert.Equal(t, 500.0, progress.AmountToNext)

	top := NextTierProgress(20000)
	assert.Equal(t, TierPlatinum, top.Tier)
	assert.Nil(t, top.NextTier)
}

func TestRecordOrderSpend(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Lata")
	order := CreateTestOrder(t, db, &user.ID, models.OrderStatusDelivered, 6000)

	recorded, err := RecordOrderSpend(db, order, DefaultPointsPerUnit)
	require.NoError(t, err)
	assert.True(t, recorded)

	again, err := RecordOrderSpend(db, order, DefaultPointsPerUnit)
	require.NoError(t, err)
	assert.False(t, again)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 6000.0, stored.LifetimeSpending)
	assert.Equal(t, int64(600), stored.MembershipPoints)
	assert.Equal(t, string(TierGold), stored.MembershipTier)
}

func TestRecordOrderSpend_SkipsGuestAndCancelled(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Nina")

	guest := CreateTestOrder(t, db, nil, models.OrderStatusDelivered, 300)
	recorded, err := RecordOrderSpend(db, guest, DefaultPointsPerUnit)
	require.NoError(t, err)
	assert.False(t, recorded)

	cancelled := CreateTestOrder(t, db, &user.ID, models.OrderStatusCancelled, 300)
	recorded, err = RecordOrderSpend(db, cancelled, DefaultPointsPerUnit)
	require.NoError(t, err)
	assert.False(t, recorded)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 0.0, stored.LifetimeSpending)
}
