package reputation

import (
	"context"
	"errors"
	"math"
	"strings"

	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/loan"
	domain "aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"
)

type Policy struct {
	// BlacklistThreshold is the number of defaults a borrower may have
	// before being blacklisted automatically.
	BlacklistThreshold uint64
}

func DefaultPolicy() Policy { return Policy{BlacklistThreshold: 2} }

type Registry struct{ policy Policy }

func NewRegistry(p Policy) *Registry { return &Registry{policy: p} }

func (g *Registry) Get(ctx context.Context, r uow.Repos, borrower string) (*domain.Profile, error) {
	return r.Profiles.Get(ctx, borrower)
}

// IsBlacklisted treats a borrower without a profile as not blacklisted.
func (g *Registry) IsBlacklisted(ctx context.Context, r uow.Repos, borrower string) (bool, error) {
	p, err := r.Profiles.Get(ctx, borrower)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsBlacklisted, nil
}

// RecordFunding is called by the loan manager when l is funded.
func (g *Registry) RecordFunding(ctx context.Context, s *uow.Scope, l *loan.Loan) error {
	p, err := g.load(ctx, s, l.Borrower)
	if err != nil {
		return err
	}
	p.TotalLoansTaken++
	p.TotalAmountBorrowed = addSat(p.TotalAmountBorrowed, l.Amount)
	if p.FirstLoanTimestamp == 0 {
		p.FirstLoanTimestamp = s.Now
	}
	p.LastActivityTimestamp = s.Now
	return s.Profiles.Save(ctx, p)
}

// RecordRepayment is called by the loan manager when l is repaid.
func (g *Registry) RecordRepayment(ctx context.Context, s *uow.Scope, l *loan.Loan) error {
	p, err := g.load(ctx, s, l.Borrower)
	if err != nil {
		return err
	}
	p.LoansRepaid++
	p.TotalAmountRepaid = addSat(p.TotalAmountRepaid, l.RepaymentAmount)
	p.LastActivityTimestamp = s.Now
	p.Recompute()
	return s.Profiles.Save(ctx, p)
}

// RecordDefault is called by the loan manager when l defaults. The borrower
// is blacklisted once their defaults exceed the policy threshold.
func (g *Registry) RecordDefault(ctx context.Context, s *uow.Scope, l *loan.Loan) error {
	p, err := g.load(ctx, s, l.Borrower)
	if err != nil {
		return err
	}
	p.LoansDefaulted++
	p.LastActivityTimestamp = s.Now
	p.Recompute()
	if !p.IsBlacklisted && domain.ShouldBlacklist(p.LoansDefaulted, g.policy.BlacklistThreshold) {
		p.IsBlacklisted = true
		s.Emit(blacklistEvent(p, "defaults"))
	}
	return s.Profiles.Save(ctx, p)
}

// SetBlacklist sets the flag directly. Callers check the admin capability.
func (g *Registry) SetBlacklist(ctx context.Context, s *uow.Scope, admin, borrower string, flag bool) (*domain.Profile, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return nil, domain.ErrInvalidBorrower
	}
	p, err := g.load(ctx, s, borrower)
	if err != nil {
		return nil, err
	}
	changed := p.IsBlacklisted != flag
	p.IsBlacklisted = flag
	if err := s.Profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	if changed {
		s.Emit(blacklistEvent(p, "admin").With("admin", admin))
	}
	return p, nil
}

func (g *Registry) load(ctx context.Context, s *uow.Scope, borrower string) (*domain.Profile, error) {
	p, err := s.Profiles.GetForUpdate(ctx, borrower)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewProfile(borrower), nil
	}
	return p, err
}

func blacklistEvent(p *domain.Profile, source string) event.Event {
	return event.New(event.TypeBorrowerBlacklisted).
		With("borrower", p.Borrower).
		WithBool("blacklisted", p.IsBlacklisted).
		WithUint("loans_defaulted", p.LoansDefaulted).
		With("source", source)
}

func addSat(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
