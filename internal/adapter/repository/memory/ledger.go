package memory

import (
	"context"
	"math"

	"aura-lend/internal/domain/ledger"
)

type ledgerRepo struct{ st *state }

func (r *ledgerRepo) Balance(_ context.Context, address string) (uint64, error) {
	return r.st.accounts[address], nil
}

func (r *ledgerRepo) Credit(_ context.Context, address string, amount uint64) error {
	bal := r.st.accounts[address]
	if bal > math.MaxUint64-amount {
		return ledger.ErrBalanceOverflow.Withf("%s", address)
	}
	r.st.accounts[address] = bal + amount
	return nil
}

func (r *ledgerRepo) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if err := ledger.CheckTransfer(from, to, amount); err != nil {
		return err
	}
	bal := r.st.accounts[from]
	if bal < amount {
		return ledger.ErrInsufficientFunds.Withf("%s has %d, needs %d", from, bal, amount)
	}
	if err := r.Credit(ctx, to, amount); err != nil {
		return err
	}
	r.st.accounts[from] = bal - amount
	return nil
}
