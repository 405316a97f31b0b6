package services

import (
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// DashboardStats summarises trading since a point in time
type DashboardStats struct {
	Since          time.Time        `json:"since"`
	TotalSales     float64          `json:"total_sales"`
	TotalDiscounts float64          `json:"total_discounts"`
	TotalTax       float64          `json:"total_tax"`
	TotalOrders    int64            `json:"total_orders"`
	ByStatus       map[string]int64 `json:"orders_by_status"`
	TotalCustomers int64            `json:"total_customers"`
	ActivePartners int64            `json:"active_partners"`
}

// TopSellingItem is a dish ranked by quantity sold
type TopSellingItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	TotalSales float64 `json:"total_sales"`
}

// GetDashboardStats totals orders placed at or after since. Cancelled orders
// are counted by status but left out of the money totals.
func GetDashboardStats(db *gorm.DB, since time.Time) (*DashboardStats, error) {
	var orders []models.Order
	if err := db.Select("id", "status", "grand_total", "discount_amount", "cgst_amount", "sgst_amount", "created_at").
		Where("created_at >= ?", since).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	stats := &DashboardStats{Since: since, ByStatus: make(map[string]int64)}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		stats.TotalOrders++
		stats.TotalSales += o.GrandTotal
		stats.TotalDiscounts += o.DiscountAmount
		stats.TotalTax += o.TotalTax()
	}
	stats.TotalSales = utils.RoundMoney(stats.TotalSales)
	stats.TotalDiscounts = utils.RoundMoney(stats.TotalDiscounts)
	stats.TotalTax = utils.RoundMoney(stats.TotalTax)

	if err := db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.DeliveryPartner{}).Where("is_active = ?", true).Count(&stats.ActivePartners).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// TopSellingItems ranks dishes by quantity on orders that were not cancelled
func TopSellingItems(db *gorm.DB, since time.Time, limit int) ([]TopSellingItem, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []TopSellingItem
	err := db.Table("order_items").
		Select("order_items.menu_item_id AS menu_item_id, MAX(order_items.name) AS name, "+
			"SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS total_sales").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ? AND orders.created_at >= ?", models.OrderStatusCancelled, since).
		Group("order_items.menu_item_id").
		Order("quantity DESC, total_sales DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].TotalSales = utils.RoundMoney(items[i].TotalSales)
	}
	return items, nil
}
