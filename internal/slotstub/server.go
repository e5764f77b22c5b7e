// Package slotstub serves an in-memory stand-in for the slot API: the same
// endpoints and payloads, scripted outcomes, and no persistence. It backs
// the hermetic tests and local runs of the harness.
package slotstub

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options configures a stub Server.
type Options struct {
	// StartBalance is the balance of a user the stub has not seen before.
	StartBalance decimal.Decimal
	Script       Script
	Logger       *slog.Logger
	// PayoutSkew is added to every payout credit. A non-zero skew makes the
	// stub's own ledger inconsistent, which the harness must detect.
	PayoutSkew decimal.Decimal
	// Faults forces a status code for a request path.
	Faults map[string]int
}

// Notice is a notification the stub accepted.
type Notice struct {
	ID            string
	UserID        int64
	TransactionID string
	Message       string
}

type bet struct {
	userID int64
	amount decimal.Decimal
	spun   bool
	won    bool
	win    decimal.Decimal
	paid   bool
}

// Server is the stub's state. All handlers serialize on one mutex.
type Server struct {
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	balances map[int64]decimal.Decimal
	bets     map[string]*bet
	spins    int
	notices  []Notice
}

// New creates a stub Server.
func New(opts Options) *Server {
	if opts.Script == nil {
		opts.Script = WinEvery(3, decimal.NewFromFloat(2.5))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		opts:     opts,
		logger:   logger,
		balances: make(map[int64]decimal.Decimal),
		bets:     make(map[string]*bet),
	}
}

// Router returns the HTTP handler exposing the slot API endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(s.logger))
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(JSONContentType)
	r.Use(s.injectFaults)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/balance", s.handleBalance)
		r.Post("/update-balance", s.handleUpdateBalance)
	})
	r.Route("/payment", func(r chi.Router) {
		r.Post("/placeBet", s.handlePlaceBet)
		r.Post("/payout", s.handlePayout)
	})
	r.Post("/slot/spin", s.handleSpin)
	r.Post("/notify", s.handleNotify)

	return r
}

// Balance returns the stub's current balance for a user.
func (s *Server) Balance(userID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(userID)
}

// Notices returns the notifications accepted so far.
func (s *Server) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// SetPayoutSkew changes the skew applied to later payouts.
func (s *Server) SetPayoutSkew(skew decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.PayoutSkew = skew
}

func (s *Server) balanceLocked(userID int64) decimal.Decimal {
	bal, ok := s.balances[userID]
	if !ok {
		bal = s.opts.StartBalance
		s.balances[userID] = bal
	}
	return bal
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, ok := s.opts.Faults[r.URL.Path]; ok {
			respondJSON(w, status, map[string]string{
				"code":    "INJECTED_FAULT",
				"message": "fault injected for " + r.URL.Path,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || domain.ValidateUserID(userID) != nil {
		respondError(w, domain.ErrValidation("userId must be a positive integer"))
		return
	}

	respondJSON(w, http.StatusOK, balanceResponse{
		UserID:   userID,
		Balance:  money(s.Balance(userID)),
		Currency: domain.Currency,
	})
}

func (s *Server) handleUpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req updateBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := domain.ValidateUserID(req.UserID); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}
	if err := domain.ValidateNonNegativeAmount(req.NewBalance); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}

	s.mu.Lock()
	s.balances[req.UserID] = req.NewBalance
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, updateBalanceResponse{UserID: req.UserID, Balance: money(req.NewBalance)})
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := domain.ValidateUserID(req.UserID); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}
	if err := domain.ValidatePositiveAmount(req.BetAmount); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}

	s.mu.Lock()
	bal := s.balanceLocked(req.UserID)
	if bal.LessThan(req.BetAmount) {
		s.mu.Unlock()
		respondError(w, domain.ErrInsufficientBalance())
		return
	}
	bal = bal.Sub(req.BetAmount)
	s.balances[req.UserID] = bal
	txID := uuid.NewString()
	s.bets[txID] = &bet{userID: req.UserID, amount: req.BetAmount}
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, placeBetResponse{
		Status:        domain.StatusSuccess,
		TransactionID: txID,
		NewBalance:    money(bal),
		UserID:        req.UserID,
	})
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	var req spinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	b, err := s.betLocked(req.TransactionID, req.UserID)
	if err == nil && b.spun {
		err = domain.ErrConflict("transaction " + req.TransactionID + " already spun")
	}
	if err == nil && !b.amount.Equal(req.BetAmount) {
		err = domain.ErrValidation("betAmount does not match the placed bet")
	}
	if err != nil {
		s.mu.Unlock()
		respondError(w, err)
		return
	}
	spin := s.opts.Script(s.spins, req.UserID, b.amount)
	if spin.Reels == nil {
		spin.Reels = []string{}
	}
	s.spins++
	b.spun = true
	b.won = spin.Win
	if spin.Win {
		b.win = spin.Amount
	}
	s.mu.Unlock()

	detail := spinDetail{
		UserID:    req.UserID,
		WinAmount: money(decimal.Zero),
		Reels:     spin.Reels,
		Message:   spin.Message,
	}
	if spin.Win {
		detail.WinAmount = money(spin.Amount)
		respondJSON(w, http.StatusOK, spinResponse{Win: &detail})
		return
	}
	respondJSON(w, http.StatusOK, spinResponse{Lose: &detail})
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	var req payoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	b, err := s.betLocked(req.TransactionID, req.UserID)
	switch {
	case err != nil:
	case !b.spun || !b.won:
		err = domain.ErrConflict("transaction " + req.TransactionID + " has no winning spin")
	case b.paid:
		err = domain.ErrConflict("transaction " + req.TransactionID + " already paid out")
	case !b.win.Equal(req.WinAmount):
		err = domain.ErrValidation("winAmount does not match the spin result")
	}
	if err != nil {
		s.mu.Unlock()
		respondError(w, err)
		return
	}
	b.paid = true
	bal := s.balanceLocked(req.UserID).Add(req.WinAmount).Add(s.opts.PayoutSkew)
	s.balances[req.UserID] = bal
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, payoutResponse{
		Status:        domain.StatusSuccess,
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		NewBalance:    money(bal),
	})
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := domain.ValidateUserID(req.UserID); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}

	notice := Notice{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		TransactionID: req.TransactionID,
		Message:       req.Message,
	}
	s.mu.Lock()
	s.notices = append(s.notices, notice)
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, notifyResponse{Status: domain.StatusSent, NotificationID: notice.ID})
}

// betLocked looks up a bet and checks that it belongs to userID.
func (s *Server) betLocked(txID string, userID int64) (*bet, error) {
	b, ok := s.bets[txID]
	if !ok {
		return nil, domain.ErrNotFound("transaction", txID)
	}
	if b.userID != userID {
		return nil, domain.ErrValidation("transaction " + txID + " belongs to another user")
	}
	return b, nil
}
