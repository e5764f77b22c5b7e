package slotstub

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Spin is one scripted spin result.
type Spin struct {
	Win bool
	// Amount is the winnings of a winning spin; ignored for a loss.
	Amount  decimal.Decimal
	Reels   []string
	Message string
}

// Script decides the outcome of the n-th spin (0-based, counted across all
// users) for a bet. Scripts are deterministic so tests can predict balances.
type Script func(n int, userID int64, bet decimal.Decimal) Spin

// AlwaysWin pays bet*multiplier on every spin.
func AlwaysWin(multiplier decimal.Decimal) Script {
	return func(_ int, _ int64, bet decimal.Decimal) Spin {
		return winSpin(bet.Mul(multiplier))
	}
}

// AlwaysLose never pays.
func AlwaysLose() Script {
	return func(int, int64, decimal.Decimal) Spin {
		return loseSpin()
	}
}

// WinEvery pays bet*multiplier on every k-th spin and loses otherwise.
func WinEvery(k int, multiplier decimal.Decimal) Script {
	if k < 1 {
		k = 1
	}
	return func(n int, _ int64, bet decimal.Decimal) Spin {
		if (n+1)%k == 0 {
			return winSpin(bet.Mul(multiplier))
		}
		return loseSpin()
	}
}

func winSpin(amount decimal.Decimal) Spin {
	amount = amount.Round(2)
	return Spin{
		Win:     true,
		Amount:  amount,
		Reels:   []string{"7", "7", "7"},
		Message: fmt.Sprintf("You won %s USD!", amount.StringFixed(2)),
	}
}

func loseSpin() Spin {
	return Spin{
		Reels:   []string{"cherry", "bell", "lemon"},
		Message: "No win this time. Try again!",
	}
}
