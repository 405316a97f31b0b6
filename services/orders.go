package services

import (
	"errors"
	"strings"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// OrderFilter narrows the back-office order list
type OrderFilter struct {
	Status  string
	UserID  *uint
	Partner *uint
	Search  string
}

// GetOrder loads an order with its items and delivery partner
func GetOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("OrderItems").Preload("DeliveryPartner").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetUserOrder loads an order only when it belongs to userID
func GetUserOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("OrderItems").Preload("DeliveryPartner").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderByGatewayID looks an order up by its payment gateway order id
func FindOrderByGatewayID(db *gorm.DB, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	if err := db.Where("razorpay_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// SetGatewayOrderID stores the payment gateway order created for an order
func SetGatewayOrderID(db *gorm.DB, orderID uint, gatewayOrderID string) error {
	res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("razorpay_order_id", gatewayOrderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListOrders returns one page of orders, newest first
func ListOrders(db *gorm.DB, filter OrderFilter, p *utils.Pagination) ([]models.Order, error) {
	query := db.Model(&models.Order{})
	if status := NormalizeStatus(filter.Status); status != "" {
		if !IsValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Partner != nil {
		query = query.Where("delivery_partner_id = ?", *filter.Partner)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(guest_name) LIKE ? OR LOWER(coupon_code) LIKE ? OR LOWER(city) LIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	p.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("OrderItems").Scopes(p.Scope()).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
