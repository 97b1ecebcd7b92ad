package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Server.WriteTimeout)
	assert.Equal(t, "development", cfg.Server.Environment)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "langlink", cfg.Database.Username)
	assert.Equal(t, "langlink", cfg.Database.DatabaseName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, 24, cfg.JWT.ExpiryHours)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	testEnvVars := map[string]string{
		"SERVER_PORT":      "9090",
		"ENVIRONMENT":      "production",
		"DB_HOST":          "db.internal",
		"DB_PORT":          "3307",
		"DB_USER":          "app",
		"DB_PASSWORD":      "secret",
		"DB_NAME":          "langlink_prod",
		"JWT_SECRET":       "prod-secret",
		"JWT_EXPIRY_HOURS": "12",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "json",
	}
	for key, value := range testEnvVars {
		os.Setenv(key, value)
	}
	defer clearTestEnvVars()

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "3307", cfg.Database.Port)
	assert.Equal(t, "app", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "langlink_prod", cfg.Database.DatabaseName)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.JWT.ExpiryHours)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestDSN_Generation(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:         "test-host",
			Port:         "3307",
			Username:     "testuser",
			Password:     "testpass",
			DatabaseName: "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "testuser:testpass@tcp(test-host:3307)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}

func TestGetEnvIntOrDefault(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")
	assert.Equal(t, 42, getEnvIntOrDefault("TEST_INT", 10))

	os.Setenv("INVALID_INT", "not-a-number")
	defer os.Unsetenv("INVALID_INT")
	assert.Equal(t, 10, getEnvIntOrDefault("INVALID_INT", 10))

	assert.Equal(t, 100, getEnvIntOrDefault("NON_EXISTENT_INT", 100))
}

func clearTestEnvVars() {
	envKeys := []string{
		"SERVER_PORT", "SERVER_HOST", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "ENVIRONMENT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"JWT_SECRET", "JWT_EXPIRY_HOURS",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envKeys {
		os.Unsetenv(key)
	}
}
