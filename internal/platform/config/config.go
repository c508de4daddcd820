package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Single-operator credentials; the app serves one user.
	AppUsername     string
	AppPasswordHash string

	// Currency settings
	BaseCurrency    string
	RatesRefreshURL string

	// Requests per hour per client IP. Zero disables rate limiting.
	RateLimitPerHour int64

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finplan-backend")
	viper.SetDefault("APP_USERNAME", "")
	viper.SetDefault("APP_PASSWORD_HASH", "")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("RATES_REFRESH_URL", "")
	viper.SetDefault("RATE_LIMIT_PER_HOUR", 1000)
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AppUsername = viper.GetString("APP_USERNAME")
	cfg.AppPasswordHash = viper.GetString("APP_PASSWORD_HASH")
	if cfg.AppUsername == "" || cfg.AppPasswordHash == "" {
		log.Println("Warning: APP_USERNAME/APP_PASSWORD_HASH not set. Login will be rejected.")
	}

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.RatesRefreshURL = viper.GetString("RATES_REFRESH_URL")
	if cfg.RatesRefreshURL == "" {
		log.Println("Warning: RATES_REFRESH_URL not set. Rate refresh endpoint will report failure.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimitPerHour = viper.GetInt64("RATE_LIMIT_PER_HOUR")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
