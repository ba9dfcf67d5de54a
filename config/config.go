package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = 8930
	DefaultTopFeesRateLimit = "10/minute"
	DefaultMaxBodyBytes     = 1 << 20
)

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL            string
	RedisAddress     string
	Port             int
	LogFormat        string // "text" or "json"
	LogLevel         string
	TopFeesRateLimit string // "<count>/<period>", e.g. "10/minute"
	GlobalRPS        float64
	GlobalBurst      int
	AllowedOrigins   []string
	MaxBodyBytes     int64
	InMemory         bool
	AutoMigrate      bool
	Redis            RedisConfig
}

// RedisConfig tunes the Redis connection pool.
type RedisConfig struct {
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *AppConfig {
	_ = godotenv.Load()

	return &AppConfig{
		DBURL:            os.Getenv("DB_URL"),
		RedisAddress:     os.Getenv("REDIS_URL"),
		Port:             getEnvAsInt("PORT", DefaultPort),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TopFeesRateLimit: getEnv("TOP_FEES_RATE_LIMIT", DefaultTopFeesRateLimit),
		GlobalRPS:        getEnvAsFloat("GLOBAL_RPS", 15),
		GlobalBurst:      getEnvAsInt("GLOBAL_BURST", 30),
		AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodyBytes:     int64(getEnvAsInt("MAX_BODY_BYTES", DefaultMaxBodyBytes)),
		AutoMigrate:      true,
		Redis: RedisConfig{
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 10*time.Second),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.DBURL == "" && !c.InMemory {
		return errors.New("missing DB_URL environment variable (or run with --in-memory)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be between 1 and 65535")
	}
	if c.GlobalRPS <= 0 || c.GlobalBurst <= 0 {
		return errors.New("GLOBAL_RPS and GLOBAL_BURST must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *AppConfig) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func getEnv(name, defaultValue string) string {
	if value, exists := os.LookupEnv(name); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(name); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	value, exists := os.LookupEnv(name)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
