package slotstub

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type balanceResponse struct {
	UserID   int64       `json:"userId"`
	Balance  json.Number `json:"balance"`
	Currency string      `json:"currency"`
}

type updateBalanceRequest struct {
	UserID     int64           `json:"userId"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

type updateBalanceResponse struct {
	UserID  int64       `json:"userId"`
	Balance json.Number `json:"balance"`
}

type placeBetRequest struct {
	UserID    int64           `json:"userId"`
	BetAmount decimal.Decimal `json:"betAmount"`
}

type placeBetResponse struct {
	Status        string      `json:"status"`
	TransactionID string      `json:"transactionId"`
	NewBalance    json.Number `json:"newBalance"`
	UserID        int64       `json:"userId"`
}

type spinRequest struct {
	UserID        int64           `json:"userId"`
	BetAmount     decimal.Decimal `json:"betAmount"`
	TransactionID string          `json:"transactionId"`
}

type spinDetail struct {
	UserID    int64       `json:"userId"`
	WinAmount json.Number `json:"winAmount"`
	Reels     []string    `json:"reels"`
	Message   string      `json:"message"`
}

// spinResponse carries exactly one of Win or Lose.
type spinResponse struct {
	Win  *spinDetail `json:"Win,omitempty"`
	Lose *spinDetail `json:"Lose,omitempty"`
}

type payoutRequest struct {
	UserID        int64           `json:"userId"`
	TransactionID string          `json:"transactionId"`
	WinAmount     decimal.Decimal `json:"winAmount"`
}

type payoutResponse struct {
	Status        string      `json:"status"`
	TransactionID string      `json:"transactionId"`
	UserID        int64       `json:"userId"`
	NewBalance    json.Number `json:"newBalance"`
}

type notifyRequest struct {
	UserID        int64  `json:"userId"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

type notifyResponse struct {
	Status         string `json:"status"`
	NotificationID string `json:"notificationId"`
}
