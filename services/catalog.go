package services

import (
	"errors"
	"strings"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// MenuItemInput is the editable part of a menu item
type MenuItemInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	IsVeg       bool
	IsAvailable *bool
	ImageURL    string
	Variants    []models.MenuItemVariant
}

// CreateMenuItem stores a dish with its variants
func CreateMenuItem(db *gorm.DB, in MenuItemInput) (*models.MenuItem, error) {
	name := utils.SanitizeString(in.Name)
	if name == "" {
		return nil, utils.BadRequestError("Menu item name is required", nil)
	}
	if err := utils.ValidatePrice(in.Price); err != nil {
		return nil, utils.BadRequestError("Invalid menu item price", err)
	}
	for _, v := range in.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return nil, utils.BadRequestError("Variant name is required", nil)
		}
		if err := utils.ValidatePrice(v.Price); err != nil {
			return nil, utils.BadRequestError("Invalid variant price", err)
		}
	}

	item := models.MenuItem{
		Name:        name,
		Description: utils.SanitizeString(in.Description),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Price:       utils.RoundMoney(in.Price),
		IsVeg:       in.IsVeg,
		IsAvailable: true,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	for _, v := range in.Variants {
		item.Variants = append(item.Variants, models.MenuItemVariant{
			Name:  strings.TrimSpace(v.Name),
			Price: utils.RoundMoney(v.Price),
		})
	}

	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Created menu item %s (id %d)", item.Name, item.ID)
	return &item, nil
}

// ListMenu returns menu items, optionally by category and only those on sale
func ListMenu(db *gorm.DB, category string, availableOnly bool) ([]models.MenuItem, error) {
	query := db.Preload("Variants")
	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		query = query.Where("category = ?", category)
	}
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetMenuItemAvailability takes a dish on or off the menu
func SetMenuItemAvailability(db *gorm.DB, id uint, available bool) (*models.MenuItem, error) {
	res := db.Model(&models.MenuItem{}).Where("id = ?", id).Update("is_available", available)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrMenuItemNotFound
	}

	var item models.MenuItem
	if err := db.Preload("Variants").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// PartnerInput is the editable part of a delivery partner
type PartnerInput struct {
	Name     string
	Phone    string
	Email    string
	IsActive *bool
}

// CreateDeliveryPartner registers a partner as available
func CreateDeliveryPartner(db *gorm.DB, in PartnerInput) (*models.DeliveryPartner, error) {
	name := utils.SanitizeString(in.Name)
	if name == "" {
		return nil, utils.BadRequestError("Partner name is required", nil)
	}
	phone, err := utils.FormatPhoneNumber(in.Phone)
	if err != nil {
		return nil, utils.BadRequestError("Invalid phone number", err)
	}

	partner := models.DeliveryPartner{
		Name:     name,
		Phone:    phone,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Status:   models.PartnerAvailable,
		IsActive: true,
	}
	if in.IsActive != nil {
		partner.IsActive = *in.IsActive
	}

	if err := db.Create(&partner).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, utils.ConflictError("A delivery partner with this phone already exists", nil)
		}
		return nil, err
	}
	utils.LogInfo("Registered delivery partner %s (id %d)", partner.Name, partner.ID)
	return &partner, nil
}

// ListDeliveryPartners lists partners, optionally by status
func ListDeliveryPartners(db *gorm.DB, status string) ([]models.DeliveryPartner, error) {
	query := db.Model(&models.DeliveryPartner{})
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		if status != models.PartnerAvailable && status != models.PartnerBusy {
			return nil, utils.BadRequestError("Invalid partner status", nil)
		}
		query = query.Where("status = ?", status)
	}

	var partners []models.DeliveryPartner
	if err := query.Order("name").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// UpdateDeliveryPartner edits a partner's details. Status only changes through
// order assignment and delivery.
func UpdateDeliveryPartner(db *gorm.DB, id uint, in PartnerInput) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if name := utils.SanitizeString(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Phone != "" {
		phone, err := utils.FormatPhoneNumber(in.Phone)
		if err != nil {
			return nil, utils.BadRequestError("Invalid phone number", err)
		}
		updates["phone"] = phone
	}
	if in.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&models.DeliveryPartner{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return nil, utils.ConflictError("A delivery partner with this phone already exists", nil)
			}
			return nil, err
		}
	}

	if err := db.First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// DeliveryChargeInput sets the delivery fee for one postal code
type DeliveryChargeInput struct {
	Pincode        string
	Charge         float64
	MinOrderAmount float64
	IsActive       *bool
}

// UpsertDeliveryCharge creates or replaces the fee override of a postal code
func UpsertDeliveryCharge(db *gorm.DB, in DeliveryChargeInput) (*models.DeliveryCharge, error) {
	pincode := strings.TrimSpace(in.Pincode)
	if !utils.ValidatePincode(pincode) {
		return nil, utils.BadRequestError("Invalid pincode", nil)
	}
	if in.Charge < 0 || in.MinOrderAmount < 0 {
		return nil, utils.BadRequestError("Charge and minimum order amount cannot be negative", nil)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	var charge models.DeliveryCharge
	err := db.Where("pincode = ?", pincode).First(&charge).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		charge = models.DeliveryCharge{
			Pincode:        pincode,
			Charge:         utils.RoundMoney(in.Charge),
			MinOrderAmount: utils.RoundMoney(in.MinOrderAmount),
			IsActive:       active,
		}
		if err := db.Create(&charge).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := db.Model(&models.DeliveryCharge{}).Where("id = ?", charge.ID).Updates(map[string]interface{}{
			"charge":           utils.RoundMoney(in.Charge),
			"min_order_amount": utils.RoundMoney(in.MinOrderAmount),
			"is_active":        active,
		}).Error; err != nil {
			return nil, err
		}
		if err := db.First(&charge, charge.ID).Error; err != nil {
			return nil, err
		}
	}

	utils.LogInfo("Delivery charge for %s set to %.2f (free above %.2f)", charge.Pincode, charge.Charge, charge.MinOrderAmount)
	return &charge, nil
}

// ListDeliveryCharges returns every postal code override
func ListDeliveryCharges(db *gorm.DB) ([]models.DeliveryCharge, error) {
	var charges []models.DeliveryCharge
	if err := db.Order("pincode").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

// DeleteDeliveryCharge removes a postal code override
func DeleteDeliveryCharge(db *gorm.DB, id uint) error {
	res := db.Delete(&models.DeliveryCharge{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundError("Delivery charge not found", nil)
	}
	return nil
}
