package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoundContext carries everything observed during one game round. It is a
// value: every With* method returns an updated copy and leaves the receiver
// untouched, so a step can never change what an earlier step saw.
type RoundContext struct {
	id        uuid.UUID
	userID    int64
	betAmount decimal.Decimal

	before       *BalanceSnapshot
	bet          *BetRecord
	outcome      SpinOutcome
	payout       *PayoutRecord
	after        *BalanceSnapshot
	notification *Notification
}

// NewRoundContext starts a round for userID staking betAmount.
func NewRoundContext(userID int64, betAmount decimal.Decimal) RoundContext {
	return RoundContext{id: uuid.New(), userID: userID, betAmount: betAmount}
}

func (rc RoundContext) ID() uuid.UUID              { return rc.id }
func (rc RoundContext) UserID() int64              { return rc.userID }
func (rc RoundContext) BetAmount() decimal.Decimal { return rc.betAmount }

// BalanceBefore returns the snapshot taken before betting.
func (rc RoundContext) BalanceBefore() (BalanceSnapshot, bool) { return deref(rc.before) }

// Bet returns the accepted bet.
func (rc RoundContext) Bet() (BetRecord, bool) { return deref(rc.bet) }

// Outcome returns the spin outcome, or nil before the spin.
func (rc RoundContext) Outcome() SpinOutcome { return rc.outcome }

// Payout returns the payout; only a winning round has one.
func (rc RoundContext) Payout() (PayoutRecord, bool) { return deref(rc.payout) }

// BalanceAfter returns the snapshot taken after the round settled.
func (rc RoundContext) BalanceAfter() (BalanceSnapshot, bool) { return deref(rc.after) }

// Notification returns the notify acknowledgement.
func (rc RoundContext) Notification() (Notification, bool) { return deref(rc.notification) }

// TransactionID is the bet's transaction id, or "" before the bet.
func (rc RoundContext) TransactionID() string {
	if rc.bet == nil {
		return ""
	}
	return rc.bet.TransactionID
}

// WinAmount is the outcome's winnings; zero before the spin and for Lose.
func (rc RoundContext) WinAmount() decimal.Decimal {
	if rc.outcome == nil {
		return decimal.Zero
	}
	return rc.outcome.Winnings()
}

// Message is the outcome message forwarded to the notification service.
func (rc RoundContext) Message() string {
	if rc.outcome == nil {
		return ""
	}
	return rc.outcome.Text()
}

// Settled reports whether both balance snapshots and the outcome are known.
func (rc RoundContext) Settled() bool {
	return rc.before != nil && rc.outcome != nil && rc.after != nil
}

func (rc RoundContext) WithBalanceBefore(s BalanceSnapshot) RoundContext {
	rc.before = &s
	return rc
}

func (rc RoundContext) WithBet(b BetRecord) RoundContext {
	rc.bet = &b
	return rc
}

func (rc RoundContext) WithOutcome(o SpinOutcome) RoundContext {
	rc.outcome = cloneOutcome(o)
	return rc
}

func (rc RoundContext) WithPayout(p PayoutRecord) RoundContext {
	rc.payout = &p
	return rc
}

func (rc RoundContext) WithBalanceAfter(s BalanceSnapshot) RoundContext {
	rc.after = &s
	return rc
}

func (rc RoundContext) WithNotification(n Notification) RoundContext {
	rc.notification = &n
	return rc
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
