package uow

import (
	"context"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/ledger"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/reputation"
)

// Repos are bound to one transaction.
type Repos struct {
	Tokens   collateral.Repository
	Loans    loan.Repository
	Auctions auction.Repository
	Profiles reputation.Repository
	Ledger   ledger.Repository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

// Scope is one command's view of the store: the transaction's repos, the
// clock reading the command runs at, and what it has produced so far.
type Scope struct {
	Repos
	Now     int64
	Effects []effect.Effect
	Events  []event.Event
}

func NewScope(r Repos, now int64) *Scope { return &Scope{Repos: r, Now: now} }

func (s *Scope) Effect(e effect.Effect) { s.Effects = append(s.Effects, e) }

func (s *Scope) Emit(e event.Event) { s.Events = append(s.Events, e) }
