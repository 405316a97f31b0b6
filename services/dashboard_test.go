package services

import (
	"testing"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Regular Diner")
	CreateTestPartner(t, db, "9876500001", models.PartnerAvailable)

	CreateTestOrder(t, db, &user.ID, models.OrderStatusDelivered, 300)
	CreateTestOrder(t, db, &user.ID, models.OrderStatusPreparing, 200.5)
	CreateTestOrder(t, db, &user.ID, models.OrderStatusCancelled, 999)

	stats, err := GetDashboardStats(db, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 500.5, stats.TotalSales)
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderStatusDelivered])
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.ActivePartners)

	later, err := GetDashboardStats(db, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Zero(t, later.TotalOrders)
	assert.Empty(t, later.ByStatus)
}

func TestTopSellingItems(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Hungry Diner")

	live := CreateTestOrder(t, db, &user.ID, models.OrderStatusDelivered, 0)
	dead := CreateTestOrder(t, db, &user.ID, models.OrderStatusCancelled, 0)
	lines := []models.OrderItem{
		{OrderID: live.ID, MenuItemID: 1, Name: "Masala Dosa", UnitPrice: 90, Quantity: 2, LineTotal: 180},
		{OrderID: live.ID, MenuItemID: 2, Name: "Filter Coffee", UnitPrice: 30, Quantity: 3, LineTotal: 90},
		{OrderID: dead.ID, MenuItemID: 1, Name: "Masala Dosa", UnitPrice: 90, Quantity: 10, LineTotal: 900},
	}
	require.NoError(t, db.Create(&lines).Error)

	items, err := TopSellingItems(db, time.Time{}, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Filter Coffee", items[0].Name)
	assert.Equal(t, int64(3), items[0].Quantity)
	assert.Equal(t, "Masala Dosa", items[1].Name)
	assert.Equal(t, int64(2), items[1].Quantity)
	assert.Equal(t, 180.0, items[1].TotalSales)
}
