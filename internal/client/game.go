package client

import (
	"context"
	"encoding/json"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// GameClient talks to the slot game service.
type GameClient struct {
	t *Transport
}

// NewGameClient creates a slot game client.
func NewGameClient(t *Transport) *GameClient {
	return &GameClient{t: t}
}

type spinRequest struct {
	UserID        int64       `json:"userId"`
	BetAmount     json.Number `json:"betAmount"`
	TransactionID string      `json:"transactionId"`
}

// Spin spins the slot machine for the bet identified by transactionID. The
// response must carry exactly one of "Win" or "Lose".
func (c *GameClient) Spin(ctx context.Context, userID int64, betAmount decimal.Decimal, transactionID string) (domain.SpinOutcome, error) {
	const op = "spin"

	body, err := c.t.post(ctx, op, "/slot/spin", spinRequest{
		UserID:        userID,
		BetAmount:     amount(betAmount),
		TransactionID: transactionID,
	})
	if err != nil {
		return nil, err
	}

	hasWin, hasLose := body.has("Win"), body.has("Lose")
	switch {
	case hasWin && hasLose:
		return nil, domain.ErrSchema(op, "Win|Lose", "are both present")
	case hasWin:
		return decodeWin(op, body, userID)
	case hasLose:
		return decodeLose(op, body, userID)
	default:
		return nil, domain.ErrSchema(op, "Win|Lose", "is missing")
	}
}

func decodeWin(op string, body object, userID int64) (domain.SpinOutcome, error) {
	win, err := body.child(op, "Win")
	if err != nil {
		return nil, err
	}
	winAmount, reels, message, err := decodeSpin(op+".Win", win, userID)
	if err != nil {
		return nil, err
	}
	if winAmount.IsNegative() {
		return nil, domain.ErrSchema(op+".Win", "winAmount", "is negative")
	}
	return domain.Win{UserID: userID, WinAmount: winAmount, Reels: reels, Message: message}, nil
}

func decodeLose(op string, body object, userID int64) (domain.SpinOutcome, error) {
	lose, err := body.child(op, "Lose")
	if err != nil {
		return nil, err
	}
	winAmount, reels, message, err := decodeSpin(op+".Lose", lose, userID)
	if err != nil {
		return nil, err
	}
	if !winAmount.IsZero() {
		return nil, domain.ErrSchema(op+".Lose", "winAmount", "is "+winAmount.String()+", want 0")
	}
	return domain.Lose{UserID: userID, WinAmount: decimal.Zero, Reels: reels, Message: message}, nil
}

// decodeSpin reads the fields shared by both variants. The outcome must be
// addressed to the user who spun.
func decodeSpin(op string, o object, userID int64) (winAmount decimal.Decimal, reels []string, message string, err error) {
	if err = o.expectUser(op, "userId", userID); err != nil {
		return
	}
	if winAmount, err = o.number(op, "winAmount"); err != nil {
		return
	}
	items, err := o.array(op, "reels")
	if err != nil {
		return
	}
	reels = symbols(items)
	message, err = o.str(op, "message")
	return
}
