package domain

import "github.com/shopspring/decimal"

// Currency is the only currency the slot API settles in.
const Currency = "USD"

// Response status literals of the slot API.
const (
	StatusSuccess = "SUCCESS"
	StatusSent    = "SENT"
)

// BalanceSnapshot is a user's balance observed at one point of a round.
type BalanceSnapshot struct {
	UserID   int64
	Amount   decimal.Decimal
	Currency string
}

// BetRecord is the accepted bet, created by placeBet.
type BetRecord struct {
	UserID           int64
	Amount           decimal.Decimal
	TransactionID    string
	ResultingBalance decimal.Decimal
}

// PayoutRecord is the settled payout of a winning spin.
type PayoutRecord struct {
	TransactionID    string
	UserID           int64
	WinAmount        decimal.Decimal
	ResultingBalance decimal.Decimal
}

// Notification is the acknowledgement returned by the notify endpoint.
type Notification struct {
	Status         string
	NotificationID string
}
