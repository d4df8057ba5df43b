// Package config loads checkbook settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/checkbook/internal/receipt"
)

type Config struct {
	// HTTP Server
	Port           string
	StaticPath     string
	AllowedOrigins []string

	// Record store
	DBPath string

	// Logging
	LogLevel string

	// Receipt scanning
	GeminiAPIKey    string
	GeminiModel     string
	GeminiEndpoint  string
	ScanTimeout     time.Duration
	MaxReceiptBytes int64
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Load reads the configuration. Values from the environment override .env,
// which overrides the defaults.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STATIC_PATH", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CHECKBOOK_DB_PATH", "./data/checkbook.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("GEMINI_MODEL", receipt.DefaultModel)
	v.SetDefault("GEMINI_ENDPOINT", "")
	v.SetDefault("SCAN_TIMEOUT", receipt.DefaultTimeout.String())
	v.SetDefault("MAX_RECEIPT_BYTES", receipt.DefaultMaxImageBytes)
	v.AutomaticEnv()

	apiKey := v.GetString("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("API_KEY")
	}

	return &Config{
		Port:            v.GetString("PORT"),
		StaticPath:      v.GetString("STATIC_PATH"),
		AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBPath:          v.GetString("CHECKBOOK_DB_PATH"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		GeminiAPIKey:    apiKey,
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		GeminiEndpoint:  v.GetString("GEMINI_ENDPOINT"),
		ScanTimeout:     v.GetDuration("SCAN_TIMEOUT"),
		MaxReceiptBytes: v.GetInt64("MAX_RECEIPT_BYTES"),
	}
}

// Validate validates the configuration and returns an error if invalid.
// A missing API key is not an error here: the server runs with scanning
// disabled.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.StaticPath != "" {
		if info, err := os.Stat(c.StaticPath); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("static path '%s' is not a directory", c.StaticPath))
		}
	}

	for _, origin := range c.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errors = append(errors, fmt.Sprintf("invalid CORS origin '%s': must be '*' or start with http:// or https://", origin))
		}
	}

	if !slices.Contains(logLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, logLevels))
	}

	if c.ScanTimeout <= 0 {
		errors = append(errors, "invalid scan timeout: must be a positive duration such as 30s")
	}
	if c.MaxReceiptBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid max receipt size %d: must be at least 1 byte", c.MaxReceiptBytes))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// splitList parses a comma-separated setting, dropping blank items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Receipt returns the extractor settings.
func (c *Config) Receipt() receipt.Config {
	return receipt.Config{
		APIKey:        c.GeminiAPIKey,
		Model:         c.GeminiModel,
		Endpoint:      c.GeminiEndpoint,
		Timeout:       c.ScanTimeout,
		MaxImageBytes: c.MaxReceiptBytes,
	}
}
