package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		DBPath:          "./data/test.db",
		LogLevel:        "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Port = "0"
	c.DBPath = ""

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "database path cannot be empty")
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/settle-test.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("READ_TIMEOUT", "not-a-duration")
	t.Setenv("WRITE_TIMEOUT", "45s")

	c := Load()
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, ":9090", c.Addr())
	assert.Equal(t, "/tmp/settle-test.db", c.DBPath)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, c.ReadTimeout, "unparsable values fall back to the default")
	assert.Equal(t, 45*time.Second, c.WriteTimeout)
	assert.NoError(t, c.Validate())
}
