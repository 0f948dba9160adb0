package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimit          string
	TransferMaxRetries int

	// BankPassApprovalRequired routes bank withdrawals through the
	// multi-player confirmation workflow instead of direct execution.
	BankPassApprovalRequired bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "piconopoly")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("TRANSFER_MAX_RETRIES", 3)
	viper.SetDefault("BANK_PASS_APPROVAL_REQUIRED", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	expiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to 12h.\n", expiryStr)
		expiry = 12 * time.Hour
	}
	cfg.JWTExpiryDuration = expiry

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.TransferMaxRetries = viper.GetInt("TRANSFER_MAX_RETRIES")
	cfg.BankPassApprovalRequired = viper.GetBool("BANK_PASS_APPROVAL_REQUIRED")

	return cfg, nil
}
