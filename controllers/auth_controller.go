package controllers

import (
	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the sign-up request body
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"role":            user.Role,
		"membership_tier": user.MembershipTier,
	}
}

// Register creates a customer account
func Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	user, err := services.RegisterUser(config.DB, services.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		utils.LogError("Registration failed for %s: %v", req.Email, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("User registered successfully: %s", user.Email)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{"user": userSummary(user)})
}

// Login exchanges credentials for an access token
func Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials, err.Error())
		return
	}

	user, err := services.AuthenticateUser(config.DB, req.Email, req.Password, Now())
	if err != nil {
		utils.LogError("Login attempt failed for %s: %v", req.Email, err)
		utils.RespondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, jwtSecret())
	if err != nil {
		utils.LogError("Failed to generate JWT token for user: %s", user.Email)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	utils.LogInfo("User logged in successfully: %s", user.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  userSummary(user),
	})
}

func jwtSecret() string {
	if config.AppConfig == nil {
		return ""
	}
	return config.AppConfig.JWTSecret
}
