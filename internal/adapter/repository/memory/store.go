// Package memory is an in-process store for the simulator and tests. Every
// transaction runs under one mutex against a staged copy of the state; commit
// swaps the copy in and rollback drops it.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"
)

type sequences struct {
	token, loan, auction, bid uint64
}

type state struct {
	tokens    map[uint64]collateral.Token
	attestors map[string]collateral.Attestor
	loans     map[uint64]loan.Loan
	auctions  map[uint64]auction.Auction
	bids      map[uint64][]auction.Bid
	profiles  map[string]reputation.Profile
	accounts  map[string]uint64
	seq       sequences
}

func newState() *state {
	return &state{
		tokens:    map[uint64]collateral.Token{},
		attestors: map[string]collateral.Attestor{},
		loans:     map[uint64]loan.Loan{},
		auctions:  map[uint64]auction.Auction{},
		bids:      map[uint64][]auction.Bid{},
		profiles:  map[string]reputation.Profile{},
		accounts:  map[string]uint64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		tokens:    make(map[uint64]collateral.Token, len(s.tokens)),
		attestors: maps.Clone(s.attestors),
		loans:     maps.Clone(s.loans),
		auctions:  maps.Clone(s.auctions),
		bids:      make(map[uint64][]auction.Bid, len(s.bids)),
		profiles:  maps.Clone(s.profiles),
		accounts:  maps.Clone(s.accounts),
		seq:       s.seq,
	}
	for id, t := range s.tokens {
		c.tokens[id] = t.Clone()
	}
	for id, b := range s.bids {
		c.bids[id] = slices.Clone(b)
	}
	return c
}

func (s *state) repos() uow.Repos {
	return uow.Repos{
		Tokens:   &tokenRepo{st: s},
		Loans:    &loanRepo{st: s},
		Auctions: &auctionRepo{st: s},
		Profiles: &profileRepo{st: s},
		Ledger:   &ledgerRepo{st: s},
	}
}

type Store struct {
	mu sync.Mutex
	st *state
}

var _ uow.UnitOfWork = (*Store)(nil)

func New() *Store { return &Store{st: newState()} }

func (m *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.st.clone()
	if err := fn(staged.repos()); err != nil {
		return err
	}
	m.st = staged
	return nil
}

func sortedKeys[K uint64 | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
