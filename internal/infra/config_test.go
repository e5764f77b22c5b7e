package infra

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BASE_URL", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(123), cfg.UserID)
	assert.True(t, cfg.BetAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 60*time.Second, cfg.RoundTimeout)
	assert.Equal(t, 1, cfg.Rounds)
	assert.True(t, cfg.StrictLedger)
	assert.Equal(t, []int64{123}, cfg.UserIDs())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://slots.example.com")
	t.Setenv("USER_ID", "7")
	t.Setenv("EXTRA_USER_IDS", "8,7,9")
	t.Setenv("BET_AMOUNT", "2.50")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("STRICT_LEDGER", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.BetAmount.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.StrictLedger)
	assert.Equal(t, []int64{7, 8, 9}, cfg.UserIDs())
}

func TestLoadConfig_BadValue(t *testing.T) {
	t.Setenv("BET_AMOUNT", "ten")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:      "http://localhost:3000",
			HTTPTimeout:  time.Second,
			UserID:       123,
			BetAmount:    decimal.NewFromInt(10),
			Rounds:       1,
			Concurrency:  1,
			RoundTimeout: time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "BASE_URL is required"},
		{"base url without scheme", func(c *Config) { c.BaseURL = "localhost:3000" }, "not an http(s) URL"},
		{"zero user", func(c *Config) { c.UserID = 0 }, "user id must be positive"},
		{"negative extra user", func(c *Config) { c.ExtraUserIDs = []int64{-1} }, "user id must be positive"},
		{"zero bet", func(c *Config) { c.BetAmount = decimal.Zero }, "BET_AMOUNT must be positive"},
		{"no rounds", func(c *Config) { c.Rounds = 0 }, "ROUNDS"},
		{"no concurrency", func(c *Config) { c.Concurrency = 0 }, "CONCURRENCY"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("does not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("USER_ID=555\nBET_AMOUNT=1\n"), 0o600))
		t.Setenv("USER_ID", "42")
		t.Setenv("BET_AMOUNT", "")
		os.Unsetenv("BET_AMOUNT")

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "42", os.Getenv("USER_ID"))
		assert.Equal(t, "1", os.Getenv("BET_AMOUNT"))
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger(&buf, "debug", "text").Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
