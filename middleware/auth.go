package middleware

import (
	"strings"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

func jwtSecret() string {
	if config.AppConfig != nil {
		return config.AppConfig.JWTSecret
	}
	return ""
}

// bearerToken extracts the token from an Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// authenticate resolves the user behind a token
func authenticate(token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, jwtSecret())
	if err != nil {
		return nil, utils.UnauthorizedError(utils.ErrInvalidToken, err)
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		return nil, utils.UnauthorizedError("User not found", err)
	}
	if user.IsBlocked {
		return nil, utils.ForbiddenError(utils.ErrUserBlocked, nil)
	}
	return &user, nil
}

// AuthMiddleware requires a valid access token and puts the user in context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		token, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := authenticate(token)
		if err != nil {
			utils.LogError("Authentication failed: %v", err)
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set("user", *user)
		utils.LogDebug("User %d authenticated successfully", user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when a token is sent and lets guests
// through otherwise. A bad token is still rejected.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.LogDebug("Continuing as guest")
			c.Next()
			return
		}

		user, err := authenticate(token)
		if err != nil {
			utils.LogError("Authentication failed: %v", err)
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set("user", *user)
		c.Next()
	}
}

// StaffMiddleware only lets admins and staff through. It runs after
// AuthMiddleware.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("StaffMiddleware called")

		user, exists := c.Get("user")
		if !exists {
			utils.LogError("User not found in context")
			utils.Unauthorized(c, "User not found in context")
			c.Abort()
			return
		}

		userModel, ok := user.(models.User)
		if !ok {
			utils.LogError("Invalid user type in context")
			utils.InternalServerError(c, "Invalid user type", nil)
			c.Abort()
			return
		}

		if !userModel.IsStaff() {
			utils.LogError("Non-staff user attempted admin access: %d", userModel.ID)
			utils.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
