package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Order    OrderConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// OrderConfig holds order pricing configuration.
// TaxRateBasisPoints expresses the tax rate in 1/100ths of a percent so
// tax computation stays in exact integer arithmetic (1500 = 15%).
type OrderConfig struct {
	TaxRateBasisPoints int64
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtConfig, err := loadJWTConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(),
		JWT:      jwtConfig,
		Cookie:   loadCookieConfig(),
		Order:    loadOrderConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "partsdepot"),
	}
}

// loadJWTConfig loads JWT config. Both signing secrets are required:
// the server refuses to start without them rather than falling back to
// a guessable default.
func loadJWTConfig() (JWTConfig, error) {
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	refreshSecret := getEnv("JWT_REFRESH_SECRET", "")
	if refreshSecret == "" {
		return JWTConfig{}, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if refreshSecret == secret {
		return JWTConfig{}, fmt.Errorf("JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}

	accessMins := getEnvInt("ACCESS_TOKEN_MINUTES", 15)
	refreshDays := getEnvInt("REFRESH_TOKEN_DAYS", 7)

	return JWTConfig{
		Secret:           secret,
		RefreshSecret:    refreshSecret,
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}, nil
}

// loadCookieConfig loads cookie config
func loadCookieConfig() CookieConfig {
	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadOrderConfig loads order pricing config
func loadOrderConfig() OrderConfig {
	bps, err := strconv.ParseInt(getEnv("TAX_RATE_BASIS_POINTS", "750"), 10, 64)
	if err != nil || bps < 0 {
		bps = 750
	}

	return OrderConfig{
		TaxRateBasisPoints: bps,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads a positive integer from the environment. A malformed
// or non-positive value falls back to the default instead of becoming
// zero, which for token lifetimes would mean instantly-expired tokens.
func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("⚠️ Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://shop.partsdepot.example"
	}
	return origins
}
