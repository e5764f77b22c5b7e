//go:build e2e

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/attaboy/slotcheck/internal/ledger"
	"github.com/shopspring/decimal"
)

// Ctx returns a context bounded by the configured round timeout.
func (e *Env) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), e.Config.RoundTimeout)
	e.t.Cleanup(cancel)
	return ctx
}

// EnsureBalance tops the user up to at least minimum through the
// update-balance endpoint. The test is skipped if the API refuses.
func (e *Env) EnsureBalance(userID int64, minimum decimal.Decimal) domain.BalanceSnapshot {
	e.t.Helper()
	snap, err := e.Clients.User.GetBalance(e.Ctx(), userID)
	if err != nil {
		e.t.Fatalf("get balance for user %d: %v", userID, err)
	}
	if snap.Amount.GreaterThanOrEqual(minimum) {
		return snap
	}
	topped, err := e.Clients.User.UpdateBalance(e.Ctx(), userID, minimum)
	if err != nil {
		e.t.Skipf("user %d has %s, needs %s, and the balance cannot be topped up: %v",
			userID, snap.Amount, minimum, err)
	}
	return topped
}

// AssertLedger fails the test unless after = before - bet + win within the
// default tolerance.
func AssertLedger(t *testing.T, before, bet, win, after decimal.Decimal) {
	t.Helper()
	if err := ledger.Verify(before, bet, win, after); err != nil {
		t.Errorf("balance mismatch: %v", err)
	}
}

// UniqueUser returns a user id derived from base that is unlikely to collide
// with ids used by other test runs against a shared deployment.
func UniqueUser(base int64, offset int) int64 {
	return base*1_000_000 + time.Now().UnixMilli()%100_000*10 + int64(offset)
}
