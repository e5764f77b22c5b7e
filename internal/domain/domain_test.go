package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Validator Tests ---

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		wantErr  bool
		errMsg   string
	}{
		{"USD", "USD", false, ""},
		{"other ISO code", "EUR", true, "unsupported currency"},
		{"lowercase", "usd", true, "invalid currency code"},
		{"too short", "US", true, "invalid currency code"},
		{"too long", "USDT", true, "invalid currency code"},
		{"empty", "", true, "invalid currency code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCurrency(tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, ValidateUserID(123))
	assert.Error(t, ValidateUserID(0))
	assert.Error(t, ValidateUserID(-1))
}

func TestValidateAmounts(t *testing.T) {
	tests := []struct {
		amount      string
		positive    bool
		nonNegative bool
	}{
		{"10", true, true},
		{"0.01", true, true},
		{"0", false, true},
		{"-0.01", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.positive, ValidatePositiveAmount(dec(tt.amount)) == nil)
			assert.Equal(t, tt.nonNegative, ValidateNonNegativeAmount(dec(tt.amount)) == nil)
		})
	}
}

// --- AppError Tests ---

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := ErrNotFound("transaction", "tx-1")
		assert.Equal(t, "NOT_FOUND: transaction tx-1 not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrTransport("get balance", 0, cause)
		assert.Equal(t, "TRANSPORT_ERROR: get balance: request failed: connection refused", err.Error())
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrTransport("spin", http.StatusBadGateway, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestErrorClassification(t *testing.T) {
	transport := ErrTransport("place bet", http.StatusInternalServerError, nil)
	schema := ErrSchema("payout", "newBalance", "is missing")

	assert.True(t, IsTransport(transport))
	assert.False(t, IsSchema(transport))
	assert.True(t, IsSchema(schema))
	assert.False(t, IsTransport(schema))

	wrapped := fmt.Errorf("Process payout: %w", schema)
	assert.True(t, IsSchema(wrapped))
	assert.Equal(t, `SCHEMA_ERROR: payout: field "newBalance" is missing`, schema.Error())

	assert.False(t, IsTransport(errors.New("plain")))
	assert.False(t, IsSchema(nil))
}

func TestErrorFactories(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", ErrNotFound("transaction", "x"), CodeNotFound, 404},
		{"conflict", ErrConflict("dup"), CodeConflict, 409},
		{"validation", ErrValidation("bad"), CodeValidation, 400},
		{"insufficient balance", ErrInsufficientBalance(), CodeInsufficientBalance, 400},
		{"internal", ErrInternal("boom", nil), CodeInternal, 500},
		{"schema", ErrSchema("spin", "Win", "bad"), CodeSchema, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

// --- SpinOutcome Tests ---

func TestSpinOutcome(t *testing.T) {
	win := Win{UserID: 1, WinAmount: dec("25"), Reels: []string{"7", "7", "7"}, Message: "You won 25.00 USD!"}
	lose := Lose{UserID: 1, WinAmount: dec("3"), Reels: []string{"a", "b", "c"}, Message: "No win"}

	assert.Equal(t, "WIN", OutcomeName(win))
	assert.Equal(t, "LOSE", OutcomeName(lose))

	assert.True(t, win.Winnings().Equal(dec("25")))
	assert.True(t, lose.Winnings().IsZero(), "a loss never pays, whatever the field says")

	assert.Equal(t, "You won 25.00 USD!", win.Text())

	reels := win.Symbols()
	reels[0] = "X"
	assert.Equal(t, "7", win.Reels[0])
}

func TestMatch(t *testing.T) {
	describe := func(o SpinOutcome) string {
		return Match(o,
			func(w Win) string { return "win " + w.WinAmount.String() },
			func(l Lose) string { return "lose " + l.Message },
		)
	}
	assert.Equal(t, "win 10", describe(Win{WinAmount: dec("10")}))
	assert.Equal(t, "lose x", describe(Lose{Message: "x"}))
	assert.Panics(t, func() { describe(nil) })
}

// --- RoundContext Tests ---

func TestRoundContext_Empty(t *testing.T) {
	rc := NewRoundContext(123, dec("10"))

	assert.NotEqual(t, NewRoundContext(123, dec("10")).ID(), rc.ID())
	assert.Equal(t, int64(123), rc.UserID())
	assert.True(t, rc.BetAmount().Equal(dec("10")))

	_, ok := rc.BalanceBefore()
	assert.False(t, ok)
	_, ok = rc.Bet()
	assert.False(t, ok)
	_, ok = rc.Payout()
	assert.False(t, ok)
	_, ok = rc.BalanceAfter()
	assert.False(t, ok)
	_, ok = rc.Notification()
	assert.False(t, ok)

	assert.Nil(t, rc.Outcome())
	assert.Empty(t, rc.TransactionID())
	assert.True(t, rc.WinAmount().IsZero())
	assert.Empty(t, rc.Message())
	assert.False(t, rc.Settled())
}

func TestRoundContext_WithLeavesReceiverUntouched(t *testing.T) {
	start := NewRoundContext(1, dec("10"))
	before := start.WithBalanceBefore(BalanceSnapshot{UserID: 1, Amount: dec("100"), Currency: Currency})
	placed := before.WithBet(BetRecord{UserID: 1, Amount: dec("10"), TransactionID: "tx-1", ResultingBalance: dec("90")})

	_, ok := start.BalanceBefore()
	assert.False(t, ok)
	_, ok = before.Bet()
	assert.False(t, ok)

	assert.Equal(t, start.ID(), placed.ID())
	assert.Equal(t, "tx-1", placed.TransactionID())

	reels := []string{"7", "7", "7"}
	spun := placed.WithOutcome(Win{UserID: 1, WinAmount: dec("25"), Reels: reels, Message: "won"})
	reels[0] = "X"
	assert.Equal(t, []string{"7", "7", "7"}, spun.Outcome().Symbols())
	assert.Nil(t, placed.Outcome())

	assert.True(t, spun.WinAmount().Equal(dec("25")))
	assert.Equal(t, "won", spun.Message())
	assert.False(t, spun.Settled())

	settled := spun.
		WithPayout(PayoutRecord{TransactionID: "tx-1", UserID: 1, WinAmount: dec("25"), ResultingBalance: dec("115")}).
		WithBalanceAfter(BalanceSnapshot{UserID: 1, Amount: dec("115"), Currency: Currency}).
		WithNotification(Notification{Status: StatusSent, NotificationID: "n-1"})

	assert.True(t, settled.Settled())
	n, ok := settled.Notification()
	require.True(t, ok)
	assert.Equal(t, "n-1", n.NotificationID)
	_, ok = spun.Notification()
	assert.False(t, ok)
}

func TestRoundContext_LoseIsSettledWithoutPayout(t *testing.T) {
	rc := NewRoundContext(1, dec("10")).
		WithBalanceBefore(BalanceSnapshot{UserID: 1, Amount: dec("100"), Currency: Currency}).
		WithOutcome(Lose{UserID: 1, Message: "No win"}).
		WithBalanceAfter(BalanceSnapshot{UserID: 1, Amount: dec("90"), Currency: Currency})

	assert.True(t, rc.Settled())
	_, paid := rc.Payout()
	assert.False(t, paid)
	assert.True(t, rc.WinAmount().IsZero())
}
