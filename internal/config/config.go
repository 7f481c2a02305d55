// Package config loads service configuration from environment variables,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the treasure hunt backend.
type Config struct {
	// Server
	Host string // bind host
	Port string // bind port

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional; empty addr disables the leaderboard cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LeaderboardTTLSeconds int

	// Auth
	IdentitySecret string // HMAC secret shared with the identity provider
	AdminJWTSecret string // signing key for admin dashboard tokens

	// Assets
	AssetDir     string // directory for uploaded day images
	AssetBaseURL string // public URL prefix for uploaded images

	// Generator
	AnthropicModel string
	MockGenerator  bool

	// Logging
	LogLevel string
}

// Load reads configuration from the environment and an optional .env file.
// Environment variables take precedence over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "hunt_user"),
		DBPassword: getEnv("DB_PASSWORD", "hunt_password"),
		DBName:     getEnv("DB_NAME", "treasure_hunt"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		LeaderboardTTLSeconds: getEnvAsInt("LEADERBOARD_TTL_SECONDS", 30),

		IdentitySecret: getEnv("IDENTITY_SECRET", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		AssetDir:     getEnv("ASSET_DIR", "./assets"),
		AssetBaseURL: getEnv("ASSET_BASE_URL", "/assets"),

		AnthropicModel: getEnv("ANTHROPIC_MODEL", ""),
		MockGenerator:  getEnvAsBool("MOCK_GENERATOR", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.IdentitySecret == "" {
		return fmt.Errorf("IDENTITY_SECRET must be set")
	}
	if c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET must be set")
	}
	return nil
}

// Addr returns the bind address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// LeaderboardTTL returns the leaderboard cache TTL as a duration.
func (c *Config) LeaderboardTTL() time.Duration {
	return time.Duration(c.LeaderboardTTLSeconds) * time.Second
}

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
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
