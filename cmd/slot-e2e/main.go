package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/attaboy/slotcheck/internal/client"
	"github.com/attaboy/slotcheck/internal/infra"
	"github.com/attaboy/slotcheck/internal/round"
)

var errRoundsFailed = errors.New("one or more rounds failed")

func main() {
	if err := infra.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Reports go to stdout, logs to stderr.
	logger := infra.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(logger, cfg, os.Stdout); err != nil {
		logger.Error("e2e run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *infra.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	clients := client.New(cfg.BaseURL, cfg.HTTPTimeout, logger)
	runner := round.NewRunner(round.ClientDeps(clients), round.Options{
		StrictLedger: cfg.StrictLedger,
		RoundTimeout: cfg.RoundTimeout,
		Concurrency:  cfg.Concurrency,
	}, logger)

	users := cfg.UserIDs()
	plans := make([]round.Plan, len(users))
	for i, id := range users {
		plans[i] = round.Plan{UserID: id, BetAmount: cfg.BetAmount}
	}

	logger.Info("e2e run starting",
		"base_url", cfg.BaseURL,
		"users", len(users),
		"rounds", cfg.Rounds,
		"strict_ledger", cfg.StrictLedger,
	)

	var passed, failed int
	for i := 0; i < cfg.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted after %d rounds: %w", i, err)
		}
		// Round errors are already in the reports; only the tally matters here.
		reports, err := runner.RunAll(ctx, plans)
		if reports == nil {
			return err
		}
		for _, r := range reports {
			if err := r.WriteList(out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if r.Passed() {
				passed++
			} else {
				failed++
			}
		}
	}

	fmt.Fprintf(out, "%d passed, %d failed\n", passed, failed)
	logger.Info("e2e run finished", "passed", passed, "failed", failed)
	if failed > 0 {
		return errRoundsFailed
	}
	return nil
}
