package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/checkbook/internal/receipt"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		DBPath:          "./data/checkbook.db",
		LogLevel:        "info",
		ScanTimeout:     30 * time.Second,
		MaxReceiptBytes: 1 << 20,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		errorString string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			modify:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			modify:      func(c *Config) { c.DBPath = "" },
			errorString: "database path cannot be empty",
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "zero scan timeout",
			modify:      func(c *Config) { c.ScanTimeout = 0 },
			errorString: "invalid scan timeout",
		},
		{
			name:        "static path missing",
			modify:      func(c *Config) { c.StaticPath = "/does/not/exist" },
			errorString: "static path '/does/not/exist' is not a directory",
		},
		{
			name:        "CORS origin without scheme",
			modify:      func(c *Config) { c.AllowedOrigins = []string{"checkbook.example"} },
			errorString: "invalid CORS origin 'checkbook.example'",
		},
		{
			name:        "zero receipt size",
			modify:      func(c *Config) { c.MaxReceiptBytes = 0 },
			errorString: "invalid max receipt size 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STATIC_PATH", "CHECKBOOK_DB_PATH", "LOG_LEVEL", "GEMINI_API_KEY", "API_KEY",
		"GEMINI_MODEL", "GEMINI_ENDPOINT", "SCAN_TIMEOUT", "MAX_RECEIPT_BYTES", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/checkbook.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.GeminiAPIKey)
	assert.Equal(t, receipt.DefaultModel, cfg.GeminiModel)
	assert.Equal(t, receipt.DefaultTimeout, cfg.ScanTimeout)
	assert.Equal(t, int64(receipt.DefaultMaxImageBytes), cfg.MaxReceiptBytes)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHECKBOOK_DB_PATH", "/tmp/ledger.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("SCAN_TIMEOUT", "5s")
	t.Setenv("MAX_RECEIPT_BYTES", "2048")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://checkbook.example, ,http://localhost:5173 ")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fallback-key", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ScanTimeout)
	assert.Equal(t, int64(2048), cfg.MaxReceiptBytes)
	assert.Equal(t, []string{"https://checkbook.example", "http://localhost:5173"}, cfg.AllowedOrigins)

	rc := cfg.Receipt()
	assert.Equal(t, "fallback-key", rc.APIKey)
	assert.Equal(t, 5*time.Second, rc.Timeout)
}

func TestLoad_GeminiKeyWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "fallback")

	assert.Equal(t, "primary", Load().GeminiAPIKey)
}
