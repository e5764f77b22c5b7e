package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attaboy/slotcheck/internal/infra"
	"github.com/attaboy/slotcheck/internal/slotstub"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *infra.Config {
	return &infra.Config{
		BaseURL:      baseURL,
		HTTPTimeout:  5 * time.Second,
		UserID:       1,
		ExtraUserIDs: []int64{2, 3},
		BetAmount:    decimal.NewFromInt(10),
		Rounds:       2,
		Concurrency:  2,
		RoundTimeout: 10 * time.Second,
		StrictLedger: true,
	}
}

func startStub(t *testing.T, opts slotstub.Options) string {
	t.Helper()
	opts.StartBalance = decimal.NewFromInt(100)
	srv := httptest.NewServer(slotstub.New(opts).Router())
	t.Cleanup(srv.Close)
	return srv.URL
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun_AllRoundsPass(t *testing.T) {
	url := startStub(t, slotstub.Options{Script: slotstub.WinEvery(2, decimal.NewFromInt(3))})

	var out bytes.Buffer
	require.NoError(t, run(discard(), testConfig(url), &out))
	assert.Contains(t, out.String(), "6 passed, 0 failed")
}

func TestRun_DiscrepancyFails(t *testing.T) {
	url := startStub(t, slotstub.Options{
		Script:     slotstub.AlwaysWin(decimal.NewFromInt(2)),
		PayoutSkew: decimal.NewFromInt(1),
	})

	var out bytes.Buffer
	err := run(discard(), testConfig(url), &out)
	assert.ErrorIs(t, err, errRoundsFailed)
	assert.Contains(t, out.String(), "0 passed, 6 failed")
	assert.Contains(t, out.String(), "FAIL Process payout")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig("")
	err := run(discard(), cfg, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASE_URL is required")
}
