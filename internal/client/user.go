package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// UserClient talks to the user service.
type UserClient struct {
	t *Transport
}

// NewUserClient creates a user service client.
func NewUserClient(t *Transport) *UserClient {
	return &UserClient{t: t}
}

// GetBalance retrieves the current balance of a user.
func (c *UserClient) GetBalance(ctx context.Context, userID int64) (domain.BalanceSnapshot, error) {
	const op = "getBalance"

	body, err := c.t.get(ctx, op, "/user/balance", url.Values{"userId": {strconv.FormatInt(userID, 10)}})
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}
	if err := body.expectUser(op, "userId", userID); err != nil {
		return domain.BalanceSnapshot{}, err
	}
	balance, err := body.number(op, "balance")
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}
	currency, err := body.str(op, "currency")
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return domain.BalanceSnapshot{}, domain.ErrSchema(op, "currency", err.Error())
	}

	return domain.BalanceSnapshot{UserID: userID, Amount: balance, Currency: domain.Currency}, nil
}

type updateBalanceRequest struct {
	UserID     int64       `json:"userId"`
	NewBalance json.Number `json:"newBalance"`
}

// UpdateBalance sets a user's balance to newBalance. The service may echo the
// stored balance; when it does not, the requested value is reported.
func (c *UserClient) UpdateBalance(ctx context.Context, userID int64, newBalance decimal.Decimal) (domain.BalanceSnapshot, error) {
	const op = "updateBalance"

	body, err := c.t.post(ctx, op, "/user/update-balance", updateBalanceRequest{
		UserID:     userID,
		NewBalance: amount(newBalance),
	})
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}

	stored := newBalance
	if body.has("balance") {
		if stored, err = body.number(op, "balance"); err != nil {
			return domain.BalanceSnapshot{}, err
		}
	}
	return domain.BalanceSnapshot{UserID: userID, Amount: stored, Currency: domain.Currency}, nil
}
