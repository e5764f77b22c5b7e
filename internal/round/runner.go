// Package round drives one game round through the slot API and checks the
// ledger identity at every point where a balance is reported.
package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attaboy/slotcheck/internal/client"
	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/attaboy/slotcheck/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Balances reads user balances.
type Balances interface {
	GetBalance(ctx context.Context, userID int64) (domain.BalanceSnapshot, error)
}

// Payments places bets and settles payouts.
type Payments interface {
	PlaceBet(ctx context.Context, userID int64, betAmount decimal.Decimal) (domain.BetRecord, error)
	Payout(ctx context.Context, userID int64, transactionID string, winAmount decimal.Decimal) (domain.PayoutRecord, error)
}

// Game spins the slot machine.
type Game interface {
	Spin(ctx context.Context, userID int64, betAmount decimal.Decimal, transactionID string) (domain.SpinOutcome, error)
}

// Notifier delivers the outcome message.
type Notifier interface {
	Notify(ctx context.Context, userID int64, transactionID, message string) (domain.Notification, error)
}

// Deps are the API collaborators a Runner calls.
type Deps struct {
	Balances Balances
	Payments Payments
	Game     Game
	Notifier Notifier
}

// ClientDeps wires the HTTP service clients into Deps.
func ClientDeps(c *client.Clients) Deps {
	return Deps{
		Balances: c.User,
		Payments: c.Payment,
		Game:     c.Game,
		Notifier: c.Notification,
	}
}

// Options tunes a Runner.
type Options struct {
	// Checker verifies the ledger identity; nil means ledger.DefaultTolerance().
	Checker *ledger.Checker
	// StrictLedger makes a discrepancy fail the round at the step that
	// observed it. Otherwise discrepancies are only collected in the report.
	StrictLedger bool
	// RoundTimeout bounds a whole round; zero means no bound.
	RoundTimeout time.Duration
	// Concurrency caps RunAll; zero means unbounded.
	Concurrency int
}

// Plan is one round to run.
type Plan struct {
	UserID    int64
	BetAmount decimal.Decimal
}

// Runner executes rounds. It keeps no per-round state, so one Runner can
// drive many rounds at once as long as they use distinct users.
type Runner struct {
	deps    Deps
	opts    Options
	checker ledger.Checker
	logger  *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(deps Deps, opts Options, logger *slog.Logger) *Runner {
	checker := ledger.NewChecker(ledger.DefaultTolerance())
	if opts.Checker != nil {
		checker = *opts.Checker
	}
	return &Runner{deps: deps, opts: opts, checker: checker, logger: logger}
}

// step advances the round by one call and returns the updated context.
type step func(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error)

// Run plays one round: balance, bet, spin, payout when won, balance, notify.
// The first transport or schema error aborts the round, as does a ledger
// discrepancy when StrictLedger is set. The report is never nil.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Report, error) {
	if r.opts.RoundTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RoundTimeout)
		defer cancel()
	}

	rc := domain.NewRoundContext(plan.UserID, plan.BetAmount)
	report := &Report{Round: rc}
	logger := r.logger.With("round_id", rc.ID().String(), "user_id", plan.UserID)
	logger.Info("round started", "bet_amount", plan.BetAmount.String())
	start := time.Now()

	err := r.exec(ctx, report, logger)
	report.Duration = time.Since(start)
	report.Err = err
	if err != nil {
		logger.Error("round failed", "error", err, "duration_ms", report.Duration.Milliseconds())
		return report, err
	}

	logger.Info("round completed",
		"outcome", domain.OutcomeName(report.Round.Outcome()),
		"discrepancies", len(report.Discrepancies),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func (r *Runner) exec(ctx context.Context, report *Report, logger *slog.Logger) error {
	steps := []struct {
		name string
		fn   step
	}{
		{StepGetBalance, r.getBalanceBefore},
		{StepPlaceBet, r.placeBet(report)},
		{StepSpin, r.spin},
		{StepPayout, r.payout(report)},
		{StepValidateBalance, r.validateBalance(report)},
		{StepNotify, r.notify},
	}

	for _, s := range steps {
		if s.name == StepPayout && !isWin(report.Round.Outcome()) {
			continue
		}
		started := time.Now()
		next, err := s.fn(ctx, report.Round)
		report.Steps = append(report.Steps, StepResult{Name: s.name, Duration: time.Since(started), Err: err})
		report.Round = next
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("step completed", "step", s.name)
	}
	return nil
}

func (r *Runner) getBalanceBefore(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
	snap, err := r.deps.Balances.GetBalance(ctx, rc.UserID())
	if err != nil {
		return rc, err
	}
	r.logger.Info("initial balance", "round_id", rc.ID().String(), "balance", snap.Amount.String())
	return rc.WithBalanceBefore(snap), nil
}

func (r *Runner) placeBet(report *Report) step {
	return func(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
		bet, err := r.deps.Payments.PlaceBet(ctx, rc.UserID(), rc.BetAmount())
		if err != nil {
			return rc, err
		}
		rc = rc.WithBet(bet)
		before, _ := rc.BalanceBefore()
		check := r.checker.Verify(before.Amount, rc.BetAmount(), decimal.Zero, bet.ResultingBalance)
		if err := r.record(report, StepPlaceBet, check); err != nil {
			return rc, err
		}
		r.logger.Info("bet placed", "round_id", rc.ID().String(), "transaction_id", bet.TransactionID)
		return rc, nil
	}
}

func (r *Runner) spin(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
	outcome, err := r.deps.Game.Spin(ctx, rc.UserID(), rc.BetAmount(), rc.TransactionID())
	if err != nil {
		return rc, err
	}
	if err := checkOutcomeUser(outcome, rc.UserID()); err != nil {
		return rc, err
	}
	r.logger.Info("spin result",
		"round_id", rc.ID().String(),
		"outcome", domain.OutcomeName(outcome),
		"win_amount", outcome.Winnings().String(),
	)
	return rc.WithOutcome(outcome), nil
}

func (r *Runner) payout(report *Report) step {
	return func(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
		p, err := r.deps.Payments.Payout(ctx, rc.UserID(), rc.TransactionID(), rc.WinAmount())
		if err != nil {
			return rc, err
		}
		rc = rc.WithPayout(p)
		before, _ := rc.BalanceBefore()
		check := r.checker.Verify(before.Amount, rc.BetAmount(), rc.WinAmount(), p.ResultingBalance)
		if err := r.record(report, StepPayout, check); err != nil {
			return rc, err
		}
		r.logger.Info("payout successful", "round_id", rc.ID().String(), "new_balance", p.ResultingBalance.String())
		return rc, nil
	}
}

func (r *Runner) validateBalance(report *Report) step {
	return func(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
		snap, err := r.deps.Balances.GetBalance(ctx, rc.UserID())
		if err != nil {
			return rc, err
		}
		rc = rc.WithBalanceAfter(snap)
		if err := r.record(report, StepValidateBalance, r.checker.VerifyRound(rc)); err != nil {
			return rc, err
		}
		r.logger.Info("balance after spin", "round_id", rc.ID().String(), "balance", snap.Amount.String())
		return rc, nil
	}
}

func (r *Runner) notify(ctx context.Context, rc domain.RoundContext) (domain.RoundContext, error) {
	n, err := r.deps.Notifier.Notify(ctx, rc.UserID(), rc.TransactionID(), rc.Message())
	if err != nil {
		return rc, err
	}
	r.logger.Info("notification sent", "round_id", rc.ID().String(), "notification_id", n.NotificationID)
	return rc.WithNotification(n), nil
}

// record files a ledger check result. Only a discrepancy under StrictLedger
// is returned as an error; anything other than a discrepancy always is.
func (r *Runner) record(report *Report, stepName string, check error) error {
	if check == nil {
		return nil
	}
	d, ok := ledger.AsDiscrepancy(check)
	if !ok {
		return check
	}
	report.Discrepancies = append(report.Discrepancies, Checkpoint{Step: stepName, Discrepancy: d})
	r.logger.Warn("ledger discrepancy",
		"round_id", report.Round.ID().String(),
		"step", stepName,
		"expected", d.Expected.String(),
		"actual", d.Actual.String(),
		"delta", d.Delta.String(),
	)
	if r.opts.StrictLedger {
		return d
	}
	return nil
}

// RunAll runs independent rounds concurrently, bounded by Concurrency.
// Plans must not share a user: each round relies on its own before/after
// snapshots. A failed round does not stop the others; the returned error
// joins every round error and reports[i] always belongs to plans[i].
func (r *Runner) RunAll(ctx context.Context, plans []Plan) ([]*Report, error) {
	seen := make(map[int64]bool, len(plans))
	for _, p := range plans {
		if seen[p.UserID] {
			return nil, fmt.Errorf("run all: user %d appears in more than one plan", p.UserID)
		}
		seen[p.UserID] = true
	}

	reports := make([]*Report, len(plans))
	errs := make([]error, len(plans))

	var g errgroup.Group
	if r.opts.Concurrency > 0 {
		g.SetLimit(r.opts.Concurrency)
	}
	for i, p := range plans {
		g.Go(func() error {
			reports[i], errs[i] = r.Run(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}

func isWin(o domain.SpinOutcome) bool {
	_, ok := o.(domain.Win)
	return ok
}

func checkOutcomeUser(o domain.SpinOutcome, userID int64) error {
	got := domain.Match(o,
		func(w domain.Win) int64 { return w.UserID },
		func(l domain.Lose) int64 { return l.UserID },
	)
	if got != userID {
		return domain.ErrSchema("spin", "userId", fmt.Sprintf("is %d, want %d", got, userID))
	}
	return nil
}
