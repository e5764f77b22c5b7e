package round

import (
	"fmt"
	"io"
	"time"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/attaboy/slotcheck/internal/ledger"
)

// Step names, in execution order.
const (
	StepGetBalance      = "Get user balance"
	StepPlaceBet        = "Place bet"
	StepSpin            = "Spin slot machine"
	StepPayout          = "Process payout"
	StepValidateBalance = "Validate balance after spin"
	StepNotify          = "Send notification"
)

// StepResult records one executed step.
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Checkpoint is a failed ledger check made during the round.
type Checkpoint struct {
	Step        string
	Discrepancy *ledger.Discrepancy
}

// Report is the outcome of one round. It is returned even when the round
// fails, holding everything observed up to the failure.
type Report struct {
	Round         domain.RoundContext
	Steps         []StepResult
	Discrepancies []Checkpoint
	Err           error
	Duration      time.Duration
}

// Passed reports whether every step succeeded and every ledger check held.
func (r *Report) Passed() bool {
	return r.Err == nil && len(r.Discrepancies) == 0
}

// WriteList prints the report one step per line.
func (r *Report) WriteList(w io.Writer) error {
	outcome := "-"
	if o := r.Round.Outcome(); o != nil {
		outcome = domain.OutcomeName(o)
	}
	if _, err := fmt.Fprintf(w, "round %s user=%d bet=%s outcome=%s (%s)\n",
		r.Round.ID(), r.Round.UserID(), r.Round.BetAmount().StringFixed(2), outcome, r.Duration.Round(time.Millisecond)); err != nil {
		return err
	}
	for _, s := range r.Steps {
		mark := "ok  "
		if s.Err != nil {
			mark = "FAIL"
		}
		line := fmt.Sprintf("  %s %s (%s)", mark, s.Name, s.Duration.Round(time.Millisecond))
		if s.Err != nil {
			line += ": " + s.Err.Error()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, c := range r.Discrepancies {
		if _, err := fmt.Fprintf(w, "  ledger %s: %v\n", c.Step, c.Discrepancy); err != nil {
			return err
		}
	}
	return nil
}
