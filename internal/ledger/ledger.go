package ledger

import (
	"errors"
	"fmt"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultTolerance returns the absolute tolerance used by Verify: 0.01, one
// cent, the rounding step of a two-decimal currency.
func DefaultTolerance() decimal.Decimal { return decimal.New(1, -2) }

// ErrRoundNotSettled is returned by VerifyRound when the round is missing a
// balance snapshot or the spin outcome.
var ErrRoundNotSettled = errors.New("round not settled")

// Discrepancy describes a failed ledger-identity check:
// balanceAfter != balanceBefore - bet + win.
type Discrepancy struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
	// Delta is |Actual - Expected|.
	Delta decimal.Decimal
}

func (d *Discrepancy) Error() string {
	return fmt.Sprintf("ledger discrepancy: expected %s, actual %s, delta %s",
		d.Expected.StringFixed(2), d.Actual.StringFixed(2), d.Delta.StringFixed(2))
}

// Signed returns Actual - Expected: positive when the account holds more
// than the ledger says it should.
func (d *Discrepancy) Signed() decimal.Decimal {
	return d.Actual.Sub(d.Expected)
}

// AsDiscrepancy extracts a *Discrepancy from err.
func AsDiscrepancy(err error) (*Discrepancy, bool) {
	var d *Discrepancy
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Checker verifies the ledger identity of a game round. The zero value
// demands exact equality. A Checker holds no state and is safe for
// concurrent use.
type Checker struct {
	Tolerance decimal.Decimal
}

// NewChecker returns a Checker with the given absolute tolerance.
func NewChecker(tolerance decimal.Decimal) Checker {
	return Checker{Tolerance: tolerance.Abs()}
}

// Verify checks balanceAfter against balanceBefore - betAmount + winAmount.
// A difference equal to the tolerance passes. On failure the returned error
// is a *Discrepancy. Inputs are not validated.
func (c Checker) Verify(balanceBefore, betAmount, winAmount, balanceAfter decimal.Decimal) error {
	expected := balanceBefore.Sub(betAmount).Add(winAmount)
	delta := balanceAfter.Sub(expected).Abs()
	if delta.LessThanOrEqual(c.Tolerance) {
		return nil
	}
	return &Discrepancy{Expected: expected, Actual: balanceAfter, Delta: delta}
}

// VerifyRound runs Verify over a settled round's snapshots, bet and winnings.
func (c Checker) VerifyRound(rc domain.RoundContext) error {
	before, ok := rc.BalanceBefore()
	if !ok || !rc.Settled() {
		return fmt.Errorf("verify round %s: %w", rc.ID(), ErrRoundNotSettled)
	}
	after, _ := rc.BalanceAfter()
	return c.Verify(before.Amount, rc.BetAmount(), rc.WinAmount(), after.Amount)
}

// Verify checks the ledger identity with DefaultTolerance.
func Verify(balanceBefore, betAmount, winAmount, balanceAfter decimal.Decimal) error {
	return NewChecker(DefaultTolerance()).Verify(balanceBefore, betAmount, winAmount, balanceAfter)
}
