// Package ledger is the fund-transfer primitive the protocol runs against.
// Transfers join the caller's transaction, so a failed transfer rolls back
// the command that requested it.
package ledger

import (
	"context"

	"aura-lend/internal/domain/errs"
)

type Account struct {
	Address string `gorm:"primaryKey;size:66" json:"address"`
	Balance uint64 `json:"balance"`
}

func (Account) TableName() string { return "ledger_accounts" }

var (
	ErrInsufficientFunds = errs.New(errs.EffectFailure, "InsufficientFunds", "insufficient funds")
	ErrInvalidTransfer   = errs.New(errs.EffectFailure, "InvalidTransfer", "invalid transfer")
	ErrBalanceOverflow   = errs.New(errs.EffectFailure, "BalanceOverflow", "balance overflow")
)

type Repository interface {
	// Balance of an unknown address is zero.
	Balance(ctx context.Context, address string) (uint64, error)
	Credit(ctx context.Context, address string, amount uint64) error
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// CheckTransfer validates the arguments shared by every implementation.
func CheckTransfer(from, to string, amount uint64) error {
	switch {
	case from == "" || to == "":
		return ErrInvalidTransfer.Withf("empty account")
	case from == to:
		return ErrInvalidTransfer.Withf("self transfer on %s", from)
	case amount == 0:
		return ErrInvalidTransfer.Withf("zero amount")
	}
	return nil
}
