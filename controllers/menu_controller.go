package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// MenuItemRequest represents the body for adding a dish
type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	IsVeg       bool    `json:"is_veg"`
	IsAvailable *bool   `json:"is_available"`
	ImageURL    string  `json:"image_url"`
	Variants    []struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price" binding:"required,gt=0"`
	} `json:"variants" binding:"dive"`
}

// ListMenu returns the dishes currently on sale
func ListMenu(c *gin.Context) {
	utils.LogInfo("ListMenu called")

	items, err := services.ListMenu(config.DB, c.Query("category"), true)
	if err != nil {
		utils.LogError("Failed to list menu: %v", err)
		utils.InternalServerError(c, "Failed to fetch menu", nil)
		return
	}

	utils.LogInfo("Listed %d menu items", len(items))
	utils.Success(c, "Menu retrieved successfully", gin.H{"items": items})
}

// AdminListMenu returns every dish, including those off sale
func AdminListMenu(c *gin.Context) {
	utils.LogInfo("AdminListMenu called")

	items, err := services.ListMenu(config.DB, c.Query("category"), false)
	if err != nil {
		utils.LogError("Failed to list menu: %v", err)
		utils.InternalServerError(c, "Failed to fetch menu", nil)
		return
	}
	utils.Success(c, "Menu retrieved successfully", gin.H{"items": items})
}

// AdminCreateMenuItem adds a dish to the menu
func AdminCreateMenuItem(c *gin.Context) {
	utils.LogInfo("AdminCreateMenuItem called")

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid menu item request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	in := services.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsVeg:       req.IsVeg,
		IsAvailable: req.IsAvailable,
		ImageURL:    req.ImageURL,
	}
	for _, v := range req.Variants {
		in.Variants = append(in.Variants, models.MenuItemVariant{Name: v.Name, Price: v.Price})
	}

	item, err := services.CreateMenuItem(config.DB, in)
	if err != nil {
		utils.LogError("Failed to create menu item %s: %v", req.Name, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Menu item created: %s (id %d)", item.Name, item.ID)
	utils.Created(c, "Menu item created successfully", gin.H{"item": item})
}

// AdminSetMenuAvailability takes a dish on or off sale
func AdminSetMenuAvailability(c *gin.Context) {
	utils.LogInfo("AdminSetMenuAvailability called")

	id, ok := paramID(c, "id", "menu item ID")
	if !ok {
		return
	}
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid availability request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	item, err := services.SetMenuItemAvailability(config.DB, id, *req.IsAvailable)
	if err != nil {
		utils.LogError("Failed to update availability of menu item %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Menu item %d availability set to %t", id, item.IsAvailable)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"item": item})
}
