package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// SpinOutcome is the result of a spin: exactly one of Win or Lose.
// The interface is sealed; use a type switch or Match.
type SpinOutcome interface {
	// Winnings is the amount credited by the outcome; always zero for Lose.
	Winnings() decimal.Decimal
	// Text is the message to forward to the notification service.
	Text() string
	// Symbols returns a copy of the reels in display order.
	Symbols() []string

	sealed()
}

// Win is a spin that pays out.
type Win struct {
	UserID    int64
	WinAmount decimal.Decimal
	Reels     []string
	Message   string
}

// Lose is a spin that pays nothing.
type Lose struct {
	UserID    int64
	WinAmount decimal.Decimal
	Reels     []string
	Message   string
}

func (w Win) Winnings() decimal.Decimal { return w.WinAmount }
func (w Win) Text() string              { return w.Message }
func (w Win) Symbols() []string         { return slices.Clone(w.Reels) }

func (Win) sealed() {}

func (Lose) Winnings() decimal.Decimal { return decimal.Zero }
func (l Lose) Text() string            { return l.Message }
func (l Lose) Symbols() []string       { return slices.Clone(l.Reels) }

func (Lose) sealed() {}

// Match dispatches on the concrete outcome. It panics on a nil outcome,
// which can only come from a RoundContext that never spun.
func Match[T any](o SpinOutcome, onWin func(Win) T, onLose func(Lose) T) T {
	switch v := o.(type) {
	case Win:
		return onWin(v)
	case Lose:
		return onLose(v)
	default:
		panic(fmt.Sprintf("domain: unknown spin outcome %T", o))
	}
}

// OutcomeName returns "WIN" or "LOSE".
func OutcomeName(o SpinOutcome) string {
	return Match(o,
		func(Win) string { return "WIN" },
		func(Lose) string { return "LOSE" },
	)
}

func cloneOutcome(o SpinOutcome) SpinOutcome {
	return Match(o,
		func(w Win) SpinOutcome { w.Reels = slices.Clone(w.Reels); return w },
		func(l Lose) SpinOutcome { l.Reels = slices.Clone(l.Reels); return l },
	)
}
