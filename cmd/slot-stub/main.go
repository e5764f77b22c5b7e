package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attaboy/slotcheck/internal/infra"
	"github.com/attaboy/slotcheck/internal/slotstub"
	"github.com/shopspring/decimal"
)

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

	logger := infra.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(logger, cfg); err != nil {
		logger.Error("stub server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *infra.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stub := slotstub.New(slotstub.Options{
		StartBalance: cfg.StubStartBalance,
		Script:       slotstub.WinEvery(cfg.StubWinEvery, decimal.NewFromFloat(2.5)),
		Logger:       logger,
	})

	addr := fmt.Sprintf(":%d", cfg.StubPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      stub.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stub server starting", "addr", addr, "start_balance", cfg.StubStartBalance.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
