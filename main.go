package main

import (
	"log"
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/controllers"
	"github.com/Govind-619/QuickBite/routes"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// webhookDedupeTTL covers the gateway's retry window
const webhookDedupeTTL = 48 * time.Hour

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLoggerIn(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLoggers()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database:", err)
	}

	// Create the first administrator
	if _, err := services.EnsureAdmin(config.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.LogError("Failed to create admin: %v", err)
		log.Fatal("Failed to create admin:", err)
	}

	mail := utils.MailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	if mail.Enabled() {
		controllers.OrderNotifier = services.NewMailNotifier(config.DB, mail)
		utils.LogInfo("Order status mail enabled via %s", mail.Host)
	}

	if cfg.Razorpay.Key != "" && cfg.Razorpay.Secret != "" {
		controllers.Gateway = services.NewRazorpayGateway(cfg.Razorpay.Key, cfg.Razorpay.Secret)
	} else {
		utils.LogInfo("Razorpay credentials not set, online payment disabled")
	}
	if cfg.RedisAddr != "" {
		controllers.WebhookDeduper = utils.NewRedisDeduper(cfg.RedisAddr, "quickbite:webhook", webhookDedupeTTL)
	}

	// Set up router
	router := routes.SetupRouter(cfg)

	utils.LogInfo("Server starting on port %s", cfg.Port)
	// Start server
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
