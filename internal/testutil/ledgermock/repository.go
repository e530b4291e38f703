package ledgermock

import (
	"context"

	"aura-lend/internal/domain/ledger"
)

var _ ledger.Repository = (*Repo)(nil)

// Transfer records one Transfer call.
type Transfer struct {
	From, To string
	Amount   uint64
}

// Repo is a function-backed mock that satisfies ledger.Repository. Every
// Transfer is recorded; unset funcs succeed.
type Repo struct {
	BalanceFn  func(ctx context.Context, address string) (uint64, error)
	CreditFn   func(ctx context.Context, address string, amount uint64) error
	TransferFn func(ctx context.Context, from, to string, amount uint64) error

	Transfers []Transfer
}

func (m *Repo) Balance(ctx context.Context, address string) (uint64, error) {
	if m.BalanceFn != nil {
		return m.BalanceFn(ctx, address)
	}
	return 0, nil
}

func (m *Repo) Credit(ctx context.Context, address string, amount uint64) error {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, address, amount)
	}
	return nil
}

func (m *Repo) Transfer(ctx context.Context, from, to string, amount uint64) error {
	m.Transfers = append(m.Transfers, Transfer{From: from, To: to, Amount: amount})
	if m.TransferFn != nil {
		return m.TransferFn(ctx, from, to, amount)
	}
	return nil
}
