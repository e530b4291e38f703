package mysql

import (
	"context"
	"math"

	"aura-lend/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Balance(ctx context.Context, address string) (uint64, error) {
	acc, err := r.account(r.db.WithContext(ctx), address)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (r *LedgerRepository) Credit(ctx context.Context, address string, amount uint64) error {
	db := r.db.WithContext(ctx)
	acc, err := r.account(forUpdate(db), address)
	if err != nil {
		return err
	}
	if acc.Balance > math.MaxUint64-amount {
		return ledger.ErrBalanceOverflow.Withf("%s", address)
	}
	acc.Balance += amount
	return upsert(db).Create(acc).Error
}

// Transfer locks both accounts in address order so opposing transfers cannot
// deadlock each other.
func (r *LedgerRepository) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if err := ledger.CheckTransfer(from, to, amount); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	a, err := r.account(forUpdate(db), first)
	if err != nil {
		return err
	}
	b, err := r.account(forUpdate(db), second)
	if err != nil {
		return err
	}
	src, dst := a, b
	if src.Address != from {
		src, dst = b, a
	}
	if src.Balance < amount {
		return ledger.ErrInsufficientFunds.Withf("%s has %d, needs %d", from, src.Balance, amount)
	}
	if dst.Balance > math.MaxUint64-amount {
		return ledger.ErrBalanceOverflow.Withf("%s", to)
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := upsert(db).Create(src).Error; err != nil {
		return err
	}
	return upsert(db).Create(dst).Error
}

// account returns the stored account, or a zero-balance one when absent.
func (r *LedgerRepository) account(db *gorm.DB, address string) (*ledger.Account, error) {
	var out ledger.Account
	err := db.Where("address = ?", address).First(&out).Error
	if notFound(err) {
		return &ledger.Account{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
