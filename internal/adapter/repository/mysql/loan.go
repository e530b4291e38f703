package mysql

import (
	"context"

	loanDomain "aura-lend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) Get(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	return r.get(r.db.WithContext(ctx), loanID)
}

// GetForUpdate locks the loan row so concurrent transitions on it serialize.
func (r *LoanRepository) GetForUpdate(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), loanID)
}

func (r *LoanRepository) get(db *gorm.DB, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := db.Where("id = ?", loanID).First(&out).Error; err != nil {
		if notFound(err) {
			return nil, loanDomain.ErrLoanNotFound.On("loan", loanID, "")
		}
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListByStatus(ctx context.Context, status loanDomain.Status) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []loanDomain.Loan{}
	return out, q.Find(&out).Error
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrower string) ([]loanDomain.Loan, error) {
	out := []loanDomain.Loan{}
	err := r.db.WithContext(ctx).Where("borrower = ?", borrower).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context) (map[loanDomain.Status]uint64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[loanDomain.Status]uint64, len(rows))
	for _, row := range rows {
		out[loanDomain.Status(row.Status)] = row.N
	}
	return out, nil
}
