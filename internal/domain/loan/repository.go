package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Get(ctx context.Context, loanID uint64) (*Loan, error)
	// GetForUpdate reads the loan and holds it until the transaction ends.
	GetForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// ListByStatus returns loans ordered by id; an empty status lists all.
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	ListByBorrower(ctx context.Context, borrower string) ([]Loan, error)
	CountByStatus(ctx context.Context) (map[Status]uint64, error)
}
