//go:build e2e

package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/attaboy/slotcheck/internal/client"
	"github.com/attaboy/slotcheck/internal/infra"
	"github.com/attaboy/slotcheck/internal/round"
	"github.com/attaboy/slotcheck/internal/slotstub"
	"github.com/shopspring/decimal"
)

// Env is the API under test. With BASE_URL set it points at a live
// deployment; otherwise an in-process stub is started for the test.
type Env struct {
	Config  *infra.Config
	Clients *client.Clients
	Logger  *slog.Logger
	// Stub is nil when running against a live API.
	Stub *slotstub.Server
	t    *testing.T
}

// NewEnv loads the harness configuration and connects the clients.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	if err := infra.LoadDotEnv(findDotEnv()); err != nil {
		t.Fatalf("load .env: %v", err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if testing.Verbose() {
		logger = infra.NewLogger(os.Stderr, cfg.LogLevel, "text")
	}

	env := &Env{Config: cfg, Logger: logger, t: t}
	if cfg.BaseURL == "" {
		env.Stub = slotstub.New(slotstub.Options{
			StartBalance: cfg.StubStartBalance,
			Script:       slotstub.WinEvery(cfg.StubWinEvery, decimal.NewFromFloat(2.5)),
			Logger:       logger,
		})
		srv := httptest.NewServer(env.Stub.Router())
		t.Cleanup(srv.Close)
		cfg.BaseURL = srv.URL
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config validation: %v", err)
	}

	env.Clients = client.New(cfg.BaseURL, cfg.HTTPTimeout, logger)
	return env
}

// Live reports whether the tests run against a real deployment.
func (e *Env) Live() bool { return e.Stub == nil }

// Runner returns a round runner using the environment's settings.
func (e *Env) Runner() *round.Runner {
	return round.NewRunner(round.ClientDeps(e.Clients), round.Options{
		StrictLedger: e.Config.StrictLedger,
		RoundTimeout: e.Config.RoundTimeout,
		Concurrency:  e.Config.Concurrency,
	}, e.Logger)
}

// findDotEnv walks up from the working directory to the module root.
func findDotEnv() string {
	dir, err := os.Getwd()
	if err != nil {
		return ".env"
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, ".env")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ".env"
		}
		dir = parent
	}
}
