package client

import (
	"context"
	"encoding/json"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentClient talks to the payment service.
type PaymentClient struct {
	t *Transport
}

// NewPaymentClient creates a payment service client.
func NewPaymentClient(t *Transport) *PaymentClient {
	return &PaymentClient{t: t}
}

type placeBetRequest struct {
	UserID    int64       `json:"userId"`
	BetAmount json.Number `json:"betAmount"`
}

// PlaceBet places a bet of betAmount for the user.
func (c *PaymentClient) PlaceBet(ctx context.Context, userID int64, betAmount decimal.Decimal) (domain.BetRecord, error) {
	const op = "placeBet"

	body, err := c.t.post(ctx, op, "/payment/placeBet", placeBetRequest{
		UserID:    userID,
		BetAmount: amount(betAmount),
	})
	if err != nil {
		return domain.BetRecord{}, err
	}
	if err := body.expectString(op, "status", domain.StatusSuccess); err != nil {
		return domain.BetRecord{}, err
	}
	txID, err := body.str(op, "transactionId")
	if err != nil {
		return domain.BetRecord{}, err
	}
	newBalance, err := body.number(op, "newBalance")
	if err != nil {
		return domain.BetRecord{}, err
	}
	if err := body.expectUser(op, "userId", userID); err != nil {
		return domain.BetRecord{}, err
	}

	return domain.BetRecord{
		UserID:           userID,
		Amount:           betAmount,
		TransactionID:    txID,
		ResultingBalance: newBalance,
	}, nil
}

type payoutRequest struct {
	UserID        int64       `json:"userId"`
	TransactionID string      `json:"transactionId"`
	WinAmount     json.Number `json:"winAmount"`
}

// Payout credits winAmount for the bet identified by transactionID.
func (c *PaymentClient) Payout(ctx context.Context, userID int64, transactionID string, winAmount decimal.Decimal) (domain.PayoutRecord, error) {
	const op = "payout"

	body, err := c.t.post(ctx, op, "/payment/payout", payoutRequest{
		UserID:        userID,
		TransactionID: transactionID,
		WinAmount:     amount(winAmount),
	})
	if err != nil {
		return domain.PayoutRecord{}, err
	}
	if err := body.expectString(op, "status", domain.StatusSuccess); err != nil {
		return domain.PayoutRecord{}, err
	}
	if err := body.expectString(op, "transactionId", transactionID); err != nil {
		return domain.PayoutRecord{}, err
	}
	if err := body.expectUser(op, "userId", userID); err != nil {
		return domain.PayoutRecord{}, err
	}
	newBalance, err := body.number(op, "newBalance")
	if err != nil {
		return domain.PayoutRecord{}, err
	}

	return domain.PayoutRecord{
		TransactionID:    transactionID,
		UserID:           userID,
		WinAmount:        winAmount,
		ResultingBalance: newBalance,
	}, nil
}
