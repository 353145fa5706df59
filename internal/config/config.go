// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Market      MarketConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	Currency             string
}

// MarketConfig carries the settlement parameters: how a sale price is split
// between the seller, the post-delivery owner share and the artist royalty,
// how long an auction runs, and which collaborator backend the engine uses.
type MarketConfig struct {
	SellerSharePercent int64
	OwnerSharePercent  int64
	RoyaltyPercent     int64
	AuctionWindowHours int
	Backend            string // "postgres" or "memory"
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "artmarket"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "artmarket-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			Currency:             getEnv("PAYMENT_CURRENCY", "usd"),
		},
		Market: MarketConfig{
			SellerSharePercent: int64(getEnvAsInt("MARKET_SELLER_SHARE_PERCENT", 30)),
			OwnerSharePercent:  int64(getEnvAsInt("MARKET_OWNER_SHARE_PERCENT", 68)),
			RoyaltyPercent:     int64(getEnvAsInt("MARKET_ROYALTY_PERCENT", 2)),
			AuctionWindowHours: getEnvAsInt("MARKET_AUCTION_WINDOW_HOURS", 72),
			Backend:            getEnv("MARKET_BACKEND", "postgres"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if sum := c.Market.SellerSharePercent + c.Market.OwnerSharePercent + c.Market.RoyaltyPercent; sum != 100 {
		return fmt.Errorf("market fee shares must sum to 100, got %d", sum)
	}

	if c.Market.Backend != "postgres" && c.Market.Backend != "memory" {
		return fmt.Errorf("unknown market backend %q", c.Market.Backend)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
