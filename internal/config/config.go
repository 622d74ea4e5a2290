package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	TelegramBotToken string
	TelegramChatID   int64 // operator channel for leads and alerts
	DatabaseURL      string
	RedisURL         string
	Host             string
	Port             string
	Env              string
	LogLevel         string
	LogFormat        string

	// MoistureThreshold is the global alert threshold in percent,
	// used for fields without a per-field override.
	MoistureThreshold int
	ScanInterval      time.Duration
	ScanRetryInterval time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    getEnvInt64("TELEGRAM_CHAT_ID", 0),
		DatabaseURL:       getEnvWithDefault("DATABASE_URL", "fieldwatch.db"),
		RedisURL:          os.Getenv("REDIS_URL"),
		Host:              getEnvWithDefault("HOST", "0.0.0.0"),
		Port:              getEnvWithDefault("PORT", "8000"),
		Env:               getEnvWithDefault("ENV", "development"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvWithDefault("LOG_FORMAT", "text"),
		MoistureThreshold: getEnvInt("MOISTURE_THRESHOLD", 25),
		ScanInterval:      getEnvDuration("SCAN_INTERVAL", 5*time.Minute),
		ScanRetryInterval: getEnvDuration("SCAN_RETRY_INTERVAL", time.Minute),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("WARNING: TELEGRAM_BOT_TOKEN not set. Bot and operator notifications are disabled.")
	}

	return cfg
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
