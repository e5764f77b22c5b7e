package infra

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all harness configuration parsed from environment variables.
type Config struct {
	// Slot API under test
	BaseURL     string        `env:"BASE_URL"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// Round parameters
	UserID       int64           `env:"USER_ID" envDefault:"123"`
	ExtraUserIDs []int64         `env:"EXTRA_USER_IDS" envSeparator:","`
	BetAmount    decimal.Decimal `env:"BET_AMOUNT" envDefault:"10"`
	Rounds       int             `env:"ROUNDS" envDefault:"1"`
	Concurrency  int             `env:"CONCURRENCY" envDefault:"4"`
	RoundTimeout time.Duration   `env:"ROUND_TIMEOUT" envDefault:"60s"`
	StrictLedger bool            `env:"STRICT_LEDGER" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Local stub server
	StubPort         int             `env:"STUB_PORT" envDefault:"3000"`
	StubStartBalance decimal.Decimal `env:"STUB_START_BALANCE" envDefault:"1000"`
	StubWinEvery     int             `env:"STUB_WIN_EVERY" envDefault:"3"`
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the round runner depends on.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_URL %q is not an http(s) URL", c.BaseURL)
	}
	for _, id := range c.UserIDs() {
		if id <= 0 {
			return fmt.Errorf("user id must be positive, got %d", id)
		}
	}
	if !c.BetAmount.IsPositive() {
		return fmt.Errorf("BET_AMOUNT must be positive, got %s", c.BetAmount)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("ROUNDS must be at least 1, got %d", c.Rounds)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if c.HTTPTimeout <= 0 || c.RoundTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT and ROUND_TIMEOUT must be positive")
	}
	return nil
}

// UserIDs returns USER_ID followed by EXTRA_USER_IDS, without duplicates.
// Each user gets its own round so concurrent rounds never share a balance.
func (c *Config) UserIDs() []int64 {
	ids := []int64{c.UserID}
	for _, id := range c.ExtraUserIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
