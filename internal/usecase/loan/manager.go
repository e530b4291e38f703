// Package loan drives a loan through requested, funded, and then repaid or
// defaulted. It locks collateral through the collateral registry and reports
// outcomes to the reputation registry.
package loan

import (
	"context"
	"math"
	"strings"

	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/event"
	domain "aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/uow"
	"aura-lend/internal/usecase/collateral"
	"aura-lend/internal/usecase/reputation"
)

const (
	ReasonFunding   = "loan_funding"
	ReasonRepayment = "loan_repayment"
)

type Manager struct {
	tokens   *collateral.Registry
	profiles *reputation.Registry
	repay    RepayPolicy
}

func NewManager(tokens *collateral.Registry, profiles *reputation.Registry, repay RepayPolicy) *Manager {
	if repay == "" {
		repay = RepayStrict
	}
	return &Manager{tokens: tokens, profiles: profiles, repay: repay}
}

func (m *Manager) RepayPolicy() RepayPolicy { return m.repay }

// CreateRequest opens a loan request and locks the token to it.
func (m *Manager) CreateRequest(ctx context.Context, s *uow.Scope, in CreateRequestInput) (*domain.Loan, error) {
	in.Borrower = strings.TrimSpace(in.Borrower)
	switch {
	case in.Borrower == "":
		return nil, domain.ErrInvalidLoanTerms.Withf("borrower is required")
	case in.Amount == 0:
		return nil, domain.ErrInvalidLoanTerms.Withf("amount must be positive")
	case in.DurationSecs <= 0:
		return nil, domain.ErrInvalidLoanTerms.Withf("duration must be positive")
	case in.DurationSecs > math.MaxInt64-s.Now:
		return nil, domain.ErrInvalidLoanTerms.Withf("duration %d overflows the due date", in.DurationSecs)
	}
	repayment, err := domain.RepaymentAmount(in.Amount, in.InterestRateBps)
	if err != nil {
		return nil, err
	}

	t, err := s.Tokens.GetForUpdate(ctx, in.TokenID)
	if err != nil {
		return nil, err
	}
	if !t.IsAttested {
		return nil, domain.ErrTokenNotAttested.On("token", t.ID, "unattested")
	}
	if t.IsLocked() {
		return nil, domain.ErrTokenLocked.On("token", t.ID, "locked")
	}
	if !t.CanBorrowAgainst(in.Borrower) {
		return nil, domain.ErrNotTokenHolder.On("token", t.ID, "")
	}
	blacklisted, err := m.profiles.IsBlacklisted(ctx, s.Repos, in.Borrower)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, domain.ErrBorrowerBlacklisted.Withf("%q", in.Borrower)
	}

	l := &domain.Loan{
		Borrower:        in.Borrower,
		TokenID:         t.ID,
		TokenOwner:      t.Owner,
		Amount:          in.Amount,
		InterestRateBps: in.InterestRateBps,
		DurationSecs:    in.DurationSecs,
		CreatedAt:       s.Now,
		RepaymentAmount: repayment,
		Status:          domain.StatusRequested,
	}
	if err := s.Loans.Create(ctx, l); err != nil {
		return nil, err
	}
	if err := m.tokens.Lock(ctx, s, t.ID, l.ID); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeLoanRequested).
		WithUint("loan_id", l.ID).
		WithUint("token_id", l.TokenID).
		With("borrower", l.Borrower).
		WithUint("amount", l.Amount).
		WithUint("interest_rate_bps", l.InterestRateBps).
		WithInt("duration_secs", l.DurationSecs))
	return l, nil
}

// Fund moves the principal from lender to borrower and starts the clock.
func (m *Manager) Fund(ctx context.Context, s *uow.Scope, lender string, loanID uint64) (*domain.Loan, error) {
	l, err := s.Loans.GetForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}
	switch {
	case l.Status.Terminal():
		return nil, domain.ErrInvalidStateTransition.Withf("fund").On("loan", l.ID, string(l.Status))
	case l.Status != domain.StatusRequested:
		return nil, domain.ErrAlreadyFunded.On("loan", l.ID, string(l.Status))
	}
	lender = strings.TrimSpace(lender)
	if lender == "" {
		return nil, domain.ErrInvalidLoanTerms.Withf("lender is required")
	}
	if lender == l.Borrower {
		return nil, domain.ErrSelfFunding.On("loan", l.ID, string(l.Status))
	}
	repayment, err := domain.RepaymentAmount(l.Amount, l.InterestRateBps)
	if err != nil {
		return nil, err
	}
	if l.DurationSecs > math.MaxInt64-s.Now {
		return nil, domain.ErrInvalidLoanTerms.On("loan", l.ID, string(l.Status))
	}

	l.Lender = lender
	l.FundedAt = s.Now
	l.DueDate = s.Now + l.DurationSecs
	l.RepaymentAmount = repayment
	l.Status = domain.StatusFunded
	if err := s.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	s.Effect(effect.Funds(lender, l.Borrower, l.Amount, ReasonFunding))
	if err := m.profiles.RecordFunding(ctx, s, l); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeLoanFunded).
		WithUint("loan_id", l.ID).
		With("lender", lender).
		With("borrower", l.Borrower).
		WithUint("amount", l.Amount).
		WithInt("due_date", l.DueDate).
		WithUint("repayment_amount", l.RepaymentAmount))
	return l, nil
}

// Repay pays the lender in full and releases the collateral. Anyone but the
// lender may pay.
func (m *Manager) Repay(ctx context.Context, s *uow.Scope, payer string, loanID uint64) (*domain.Loan, error) {
	l, err := s.Loans.GetForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusFunded {
		return nil, domain.ErrInvalidStateTransition.Withf("repay").On("loan", l.ID, string(l.Status))
	}
	if m.repay == RepayStrict && s.Now > l.DueDate {
		return nil, domain.ErrLoanOverdue.On("loan", l.ID, string(l.Status))
	}
	payer = strings.TrimSpace(payer)
	if payer == "" {
		return nil, domain.ErrInvalidLoanTerms.Withf("payer is required")
	}
	if payer == l.Lender {
		return nil, domain.ErrSelfFunding.Withf("payer is the lender").On("loan", l.ID, string(l.Status))
	}

	l.Status = domain.StatusRepaid
	l.RepaidAt = s.Now
	if err := s.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	if err := m.tokens.Unlock(ctx, s, l.TokenID); err != nil {
		return nil, err
	}
	s.Effect(effect.Funds(payer, l.Lender, l.RepaymentAmount, ReasonRepayment))
	if err := m.profiles.RecordRepayment(ctx, s, l); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeLoanRepaid).
		WithUint("loan_id", l.ID).
		With("payer", payer).
		With("lender", l.Lender).
		WithUint("repayment_amount", l.RepaymentAmount))
	return l, nil
}

// MarkDefault is a permissionless pull once the due date has passed. The
// token stays locked to the loan until its auction settles.
func (m *Manager) MarkDefault(ctx context.Context, s *uow.Scope, caller string, loanID uint64) (*domain.Loan, error) {
	l, err := s.Loans.GetForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusFunded {
		return nil, domain.ErrInvalidStateTransition.Withf("default").On("loan", l.ID, string(l.Status))
	}
	if !l.Overdue(s.Now) {
		return nil, domain.ErrNotYetDue.On("loan", l.ID, string(l.Status))
	}

	l.Status = domain.StatusDefaulted
	l.DefaultedAt = s.Now
	if err := s.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	if err := m.profiles.RecordDefault(ctx, s, l); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeLoanDefaulted).
		WithUint("loan_id", l.ID).
		WithUint("token_id", l.TokenID).
		With("borrower", l.Borrower).
		With("caller", caller).
		WithUint("repayment_amount", l.RepaymentAmount))
	return l, nil
}

func (m *Manager) Get(ctx context.Context, r uow.Repos, loanID uint64) (*domain.Loan, error) {
	return r.Loans.Get(ctx, loanID)
}

// List returns loans in status; an empty status returns every loan.
func (m *Manager) List(ctx context.Context, r uow.Repos, status domain.Status) ([]domain.Loan, error) {
	return r.Loans.ListByStatus(ctx, status)
}

func (m *Manager) ByBorrower(ctx context.Context, r uow.Repos, borrower string) ([]domain.Loan, error) {
	return r.Loans.ListByBorrower(ctx, borrower)
}
