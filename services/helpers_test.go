package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// testDB opens a private in-memory database with the full schema
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// CreateTestUser stores a customer with the given name
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:           name,
		Email:          strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:           models.RoleCustomer,
		MembershipTier: string(TierBronze),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestCoupon stores an active coupon expiring a day after testNow
func CreateTestCoupon(t *testing.T, db *gorm.DB, code, kind string, value float64, limit *int) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		Code:         code,
		DiscountType: kind,
		Value:        value,
		Expiry:       testNow.Add(24 * time.Hour),
		UsageLimit:   limit,
		Active:       true,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

// CreateTestMenuItem stores an available dish
func CreateTestMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{Name: name, Category: "mains", Price: price, IsAvailable: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateTestPartner stores an active delivery partner
func CreateTestPartner(t *testing.T, db *gorm.DB, phone, status string) *models.DeliveryPartner {
	t.Helper()
	partner := &models.DeliveryPartner{Name: "Rider " + phone, Phone: phone, Status: status, IsActive: true}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

// CreateTestOrder stores an order in the given status
func CreateTestOrder(t *testing.T, db *gorm.DB, userID *uint, status string, total float64) *models.Order {
	t.Helper()
	number, err := NextSequence(db, models.SequenceOrderNumber)
	require.NoError(t, err)
	order := &models.Order{
		OrderNumber:   number,
		UserID:        userID,
		Status:        status,
		Subtotal:      total,
		GrandTotal:    total,
		PaymentMethod: models.PaymentMethodOnline,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func testLifecycle() LifecycleOptions {
	return LifecycleOptions{
		PointsPerUnit:         DefaultPointsPerUnit,
		ReferrerRewardPercent: 5,
		Now:                   func() time.Time { return testNow },
	}
}
