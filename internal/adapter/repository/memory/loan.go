package memory

import (
	"context"

	"aura-lend/internal/domain/loan"
)

type loanRepo struct{ st *state }

func (r *loanRepo) Create(_ context.Context, l *loan.Loan) error {
	r.st.seq.loan++
	l.ID = r.st.seq.loan
	r.st.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) Get(_ context.Context, loanID uint64) (*loan.Loan, error) {
	l, ok := r.st.loans[loanID]
	if !ok {
		return nil, loan.ErrLoanNotFound.On("loan", loanID, "")
	}
	return &l, nil
}

func (r *loanRepo) GetForUpdate(ctx context.Context, loanID uint64) (*loan.Loan, error) {
	return r.Get(ctx, loanID)
}

func (r *loanRepo) Save(_ context.Context, l *loan.Loan) error {
	if _, ok := r.st.loans[l.ID]; !ok {
		return loan.ErrLoanNotFound.On("loan", l.ID, "")
	}
	r.st.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) ListByStatus(_ context.Context, status loan.Status) ([]loan.Loan, error) {
	return r.filter(func(l loan.Loan) bool { return status == "" || l.Status == status }), nil
}

func (r *loanRepo) ListByBorrower(_ context.Context, borrower string) ([]loan.Loan, error) {
	return r.filter(func(l loan.Loan) bool { return l.Borrower == borrower }), nil
}

func (r *loanRepo) CountByStatus(context.Context) (map[loan.Status]uint64, error) {
	out := map[loan.Status]uint64{}
	for _, l := range r.st.loans {
		out[l.Status]++
	}
	return out, nil
}

func (r *loanRepo) filter(keep func(loan.Loan) bool) []loan.Loan {
	out := []loan.Loan{}
	for _, id := range sortedKeys(r.st.loans) {
		if l := r.st.loans[id]; keep(l) {
			out = append(out, l)
		}
	}
	return out
}
