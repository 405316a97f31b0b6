package models

import (
	"gorm.io/gorm"
)

// MenuItem is a dish on the storefront menu
type MenuItem struct {
	gorm.Model
	Name        string            `gorm:"not null" json:"name"`
	Description string            `json:"description"`
	Category    string            `gorm:"index" json:"category"`
	Price       float64           `gorm:"not null" json:"price"`
	IsVeg       bool              `json:"is_veg"`
	IsAvailable bool              `json:"is_available"`
	ImageURL    string            `json:"image_url"`
	Variants    []MenuItemVariant `gorm:"foreignKey:MenuItemID" json:"variants,omitempty"`
}

// MenuItemVariant is a size or option with its own price
type MenuItemVariant struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	MenuItemID uint    `gorm:"index;not null" json:"menu_item_id"`
	Name       string  `gorm:"not null" json:"name"`
	Price      float64 `gorm:"not null" json:"price"`
}
