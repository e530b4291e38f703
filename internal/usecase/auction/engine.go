// Package auction liquidates the collateral of defaulted loans. Bids are
// escrowed as they arrive; settlement pays the lender up to the debt and
// returns any surplus to the borrower.
package auction

import (
	"context"
	"math"
	"strings"

	domain "aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/uow"
	"aura-lend/internal/usecase/collateral"
)

const (
	ReasonBidEscrow  = "bid_escrow"
	ReasonBidRefund  = "bid_refund"
	ReasonSettlement = "auction_settlement"
	ReasonSurplus    = "auction_surplus"
	ReasonUnsold     = "auction_unsold"

	DefaultDurationSecs = 3 * 24 * 60 * 60
	DefaultEscrow       = "auction-escrow"
)

type Policy struct {
	DurationSecs int64
	// MinBidBps sets the opening bid as a share of the defaulted debt.
	MinBidBps uint64
	// A bid landing within AntiSnipeWindowSecs of the end pushes the end to
	// at least AntiSnipeExtensionSecs after the bid. Zero disables it.
	AntiSnipeWindowSecs    int64
	AntiSnipeExtensionSecs int64
	// Escrow is the account holding the funds of outstanding bids.
	Escrow string
}

func DefaultPolicy() Policy {
	return Policy{DurationSecs: DefaultDurationSecs, MinBidBps: loan.BasisPoints, Escrow: DefaultEscrow}
}

type Engine struct {
	tokens *collateral.Registry
	policy Policy
}

func NewEngine(tokens *collateral.Registry, p Policy) *Engine {
	if p.Escrow == "" {
		p.Escrow = DefaultEscrow
	}
	if p.DurationSecs <= 0 {
		p.DurationSecs = DefaultDurationSecs
	}
	return &Engine{tokens: tokens, policy: p}
}

func (e *Engine) Policy() Policy { return e.policy }

type StartInput struct {
	TokenID      uint64
	LoanID       uint64
	Lender       string
	MinBid       uint64
	DurationSecs int64
}

// MinBidFor is the opening bid the policy sets for a defaulted loan.
func (e *Engine) MinBidFor(l *loan.Loan) uint64 {
	return loan.ApplyBps(l.RepaymentAmount, e.policy.MinBidBps)
}

// StartFor opens the auction for a loan that has just defaulted.
func (e *Engine) StartFor(ctx context.Context, s *uow.Scope, l *loan.Loan) (*domain.Auction, error) {
	return e.Start(ctx, s, StartInput{
		TokenID:      l.TokenID,
		LoanID:       l.ID,
		Lender:       l.Lender,
		MinBid:       e.MinBidFor(l),
		DurationSecs: e.policy.DurationSecs,
	})
}

// Start opens an auction. The loan must be defaulted, hold the token, and
// not have been auctioned before.
func (e *Engine) Start(ctx context.Context, s *uow.Scope, in StartInput) (*domain.Auction, error) {
	if in.DurationSecs <= 0 || in.DurationSecs > math.MaxInt64-s.Now {
		return nil, domain.ErrInvalidAuction.Withf("duration %d", in.DurationSecs)
	}
	l, err := s.Loans.Get(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}
	if l.Status != loan.StatusDefaulted {
		return nil, domain.ErrLoanNotDefaulted.On("loan", l.ID, string(l.Status))
	}
	if l.TokenID != in.TokenID || l.Lender != in.Lender {
		return nil, domain.ErrInvalidAuction.Withf("token or lender does not match loan %d", l.ID)
	}
	if existing, err := s.Auctions.GetByLoanID(ctx, l.ID); err == nil {
		return nil, domain.ErrAuctionExists.On("auction", existing.ID, string(existing.Status))
	} else if !isNotFound(err) {
		return nil, err
	}

	a := &domain.Auction{
		TokenID:          in.TokenID,
		LoanID:           l.ID,
		OriginalBorrower: l.Borrower,
		Lender:           in.Lender,
		StartTime:        s.Now,
		EndTime:          s.Now + in.DurationSecs,
		MinBid:           in.MinBid,
		DebtAmount:       l.RepaymentAmount,
		Status:           domain.StatusActive,
	}
	if err := s.Auctions.Create(ctx, a); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeAuctionStarted).
		WithUint("auction_id", a.ID).
		WithUint("loan_id", a.LoanID).
		WithUint("token_id", a.TokenID).
		WithUint("min_bid", a.MinBid).
		WithUint("debt_amount", a.DebtAmount).
		WithInt("end_time", a.EndTime))
	return a, nil
}

// PlaceBid escrows amount from bidder and refunds the bid it displaces.
func (e *Engine) PlaceBid(ctx context.Context, s *uow.Scope, bidder string, auctionID, amount uint64) (*domain.Bid, error) {
	bidder = strings.TrimSpace(bidder)
	if bidder == "" {
		return nil, domain.ErrInvalidAuction.Withf("bidder is required")
	}
	a, err := s.Auctions.GetForUpdate(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusActive {
		return nil, domain.ErrAuctionNotActive.On("auction", a.ID, string(a.Status))
	}
	if s.Now >= a.EndTime {
		return nil, domain.ErrAuctionClosed.On("auction", a.ID, string(a.Status))
	}
	if a.HasBids() {
		if amount <= a.CurrentHighestBid {
			return nil, domain.ErrBidTooLow.Withf("%d must exceed %d", amount, a.CurrentHighestBid).On("auction", a.ID, string(a.Status))
		}
	} else if amount == 0 || amount < a.MinBid {
		return nil, domain.ErrBidTooLow.Withf("%d is below the minimum %d", amount, a.MinBid).On("auction", a.ID, string(a.Status))
	}

	s.Effect(effect.Funds(bidder, e.policy.Escrow, amount, ReasonBidEscrow))
	if a.HasBids() {
		s.Effect(effect.Funds(e.policy.Escrow, a.HighestBidder, a.CurrentHighestBid, ReasonBidRefund))
	}

	a.CurrentHighestBid = amount
	a.HighestBidder = bidder
	a.TotalBids++
	extended := e.extend(a, s.Now)

	b := &domain.Bid{AuctionID: a.ID, Bidder: bidder, Amount: amount, Timestamp: s.Now}
	if err := s.Auctions.AddBid(ctx, b); err != nil {
		return nil, err
	}
	if err := s.Auctions.Save(ctx, a); err != nil {
		return nil, err
	}
	ev := event.New(event.TypeAuctionBid).
		WithUint("auction_id", a.ID).
		WithUint("bid_id", b.ID).
		With("bidder", bidder).
		WithUint("amount", amount)
	if extended {
		ev = ev.WithInt("end_time", a.EndTime)
	}
	s.Emit(ev)
	return b, nil
}

// extend applies the anti-snipe rule and reports whether EndTime moved.
func (e *Engine) extend(a *domain.Auction, now int64) bool {
	w, ext := e.policy.AntiSnipeWindowSecs, e.policy.AntiSnipeExtensionSecs
	if w <= 0 || ext <= 0 || now < a.EndTime-w {
		return false
	}
	if now > math.MaxInt64-ext {
		return false
	}
	if end := now + ext; end > a.EndTime {
		a.EndTime = end
		return true
	}
	return false
}

// End closes bidding once the end time is reached. No funds move.
func (e *Engine) End(ctx context.Context, s *uow.Scope, caller string, auctionID uint64) (*domain.Auction, error) {
	a, err := s.Auctions.GetForUpdate(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusActive {
		return nil, domain.ErrAuctionNotActive.On("auction", a.ID, string(a.Status))
	}
	if s.Now < a.EndTime {
		return nil, domain.ErrAuctionNotYetEnded.On("auction", a.ID, string(a.Status))
	}
	a.Status = domain.StatusEnded
	if err := s.Auctions.Save(ctx, a); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeAuctionEnded).
		WithUint("auction_id", a.ID).
		With("caller", caller).
		WithUint("total_bids", a.TotalBids))
	return a, nil
}

// Settle pays out an ended auction. An active auction past its end time is
// ended and settled in one step.
func (e *Engine) Settle(ctx context.Context, s *uow.Scope, caller string, auctionID uint64) (*domain.Auction, error) {
	a, err := s.Auctions.GetForUpdate(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case domain.StatusSettled:
		return nil, domain.ErrAlreadySettled.On("auction", a.ID, string(a.Status))
	case domain.StatusActive:
		if s.Now < a.EndTime {
			return nil, domain.ErrAuctionNotYetEnded.On("auction", a.ID, string(a.Status))
		}
	}

	ev := event.New(event.TypeAuctionSettled).
		WithUint("auction_id", a.ID).
		WithUint("token_id", a.TokenID).
		With("caller", caller)
	if a.HasBids() {
		toLender, toBorrower := domain.Split(a.CurrentHighestBid, a.DebtAmount)
		s.Effect(effect.Funds(e.policy.Escrow, a.Lender, toLender, ReasonSettlement))
		if toBorrower > 0 {
			s.Effect(effect.Funds(e.policy.Escrow, a.OriginalBorrower, toBorrower, ReasonSurplus))
		}
		if err := e.tokens.TransferOwnership(ctx, s, a.TokenID, a.HighestBidder, ReasonSettlement); err != nil {
			return nil, err
		}
		ev = ev.With("winner", a.HighestBidder).
			WithUint("to_lender", toLender).
			WithUint("to_borrower", toBorrower)
	} else {
		if err := e.tokens.TransferOwnership(ctx, s, a.TokenID, a.Lender, ReasonUnsold); err != nil {
			return nil, err
		}
		ev = ev.With("winner", a.Lender).WithUint("to_lender", 0).WithUint("to_borrower", 0)
	}

	a.Status = domain.StatusSettled
	a.SettledAt = s.Now
	if err := s.Auctions.Save(ctx, a); err != nil {
		return nil, err
	}
	s.Emit(ev)
	return a, nil
}

func (e *Engine) Get(ctx context.Context, r uow.Repos, auctionID uint64) (*domain.Auction, error) {
	return r.Auctions.Get(ctx, auctionID)
}

func (e *Engine) List(ctx context.Context, r uow.Repos, status domain.Status) ([]domain.Auction, error) {
	return r.Auctions.ListByStatus(ctx, status)
}

func (e *Engine) Bids(ctx context.Context, r uow.Repos, auctionID uint64) ([]domain.Bid, error) {
	if _, err := r.Auctions.Get(ctx, auctionID); err != nil {
		return nil, err
	}
	return r.Auctions.ListBids(ctx, auctionID)
}
