package config

import (
	"fmt"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection and migrates the schema
func InitDB(cfg *Config) error {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	utils.LogInfo("Connected to database %s on %s:%s", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)
	return nil
}

// Migrate creates or updates every table the service uses
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Coupon{},
		&models.ReferralTransaction{},
		&models.MenuItem{},
		&models.MenuItemVariant{},
		&models.DeliveryPartner{},
		&models.DeliveryCharge{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sequence{},
		&models.PaymentEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
