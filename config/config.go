package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// ErrMissingJWTSecret is returned when production starts without JWT_SECRET
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// AppConfig is the configuration loaded at startup
var AppConfig *Config

// Config holds all configuration for the application
type Config struct {
	Port      string `env:"PORT,default=8080"`
	Env       string `env:"ENV,default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogDir    string `env:"LOG_DIR,default=logs"`
	RedisAddr string `env:"REDIS_ADDR"`

	Database DatabaseConfig `env:",prefix=DB_"`
	Razorpay RazorpayConfig `env:",prefix=RAZORPAY_"`
	SMTP     SMTPConfig     `env:",prefix=SMTP_"`
	Pricing  PricingConfig  `env:",prefix=PRICING_"`
	Limits   LimitConfig    `env:",prefix=RATE_LIMIT_"`

	// StrictTransitions enables adjacency checks on order status changes
	StrictTransitions bool `env:"STRICT_TRANSITIONS,default=false"`

	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@quickbite.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=postgres"`
	Password string `env:"PASSWORD,default=postgres"`
	Name     string `env:"NAME,default=quickbite"`
	SSLMode  string `env:"SSL_MODE,default=disable"`
}

// RazorpayConfig holds payment gateway credentials
type RazorpayConfig struct {
	Key           string `env:"KEY"`
	Secret        string `env:"SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM,default=orders@quickbite.local"`
}

// PricingConfig holds the checkout pricing knobs
type PricingConfig struct {
	CGSTRate              float64 `env:"CGST_RATE,default=2.5"`
	SGSTRate              float64 `env:"SGST_RATE,default=2.5"`
	DeliveryFee           float64 `env:"DELIVERY_FEE,default=40"`
	FreeDeliveryThreshold float64 `env:"FREE_DELIVERY_THRESHOLD,default=499"`
	ReferralDiscountPct   float64 `env:"REFERRAL_DISCOUNT_PERCENT,default=10"`
	ReferralDiscountCap   float64 `env:"REFERRAL_DISCOUNT_CAP,default=100"`
	ReferrerRewardPct     float64 `env:"REFERRER_REWARD_PERCENT,default=5"`
	PointsPerUnit         float64 `env:"POINTS_PER_CURRENCY_UNIT,default=0.1"`
}

// LimitConfig holds per-client rate limits
type LimitConfig struct {
	RPS   float64 `env:"RPS,default=5"`
	Burst int     `env:"BURST,default=10"`
}

// LoadConfig loads configuration from the environment, reading .env first
// when one is present
func LoadConfig() (*Config, error) {
	// .env is optional outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the service cannot run with. Outside production a
// missing JWT secret is replaced by a random one, so tokens do not survive a
// restart.
func (c *Config) Validate() error {
	if c.JWTSecret != "" {
		return nil
	}
	if c.IsProduction() {
		return ErrMissingJWTSecret
	}
	c.JWTSecret = uuid.NewString()
	return nil
}
