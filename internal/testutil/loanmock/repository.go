package loanmock

import (
	"context"

	domain "aura-lend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops; reads default to ErrLoanNotFound.
type Repo struct {
	CreateFn         func(ctx context.Context, l *domain.Loan) error
	GetFn            func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	GetForUpdateFn   func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	SaveFn           func(ctx context.Context, l *domain.Loan) error
	ListByStatusFn   func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListByBorrowerFn func(ctx context.Context, borrower string) ([]domain.Loan, error)
	CountByStatusFn  func(ctx context.Context) (map[domain.Status]uint64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, loanID)
	}
	return nil, domain.ErrLoanNotFound.On("loan", loanID, "")
}

func (m *Repo) GetForUpdate(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrLoanNotFound.On("loan", loanID, "")
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) ListByBorrower(ctx context.Context, borrower string) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrower)
	}
	return nil, nil
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]uint64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return map[domain.Status]uint64{}, nil
}
