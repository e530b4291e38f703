package reputation

import (
	"context"
	"testing"

	"aura-lend/internal/adapter/repository/memory"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/loan"
	domain "aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 = int64(1_700_000_000)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	reg   *Registry
	now   int64
}

func newFixture(threshold uint64) *fixture {
	return &fixture{
		ctx:   context.Background(),
		store: memory.New(),
		reg:   NewRegistry(Policy{BlacklistThreshold: threshold}),
		now:   t0,
	}
}

func (f *fixture) run(t *testing.T, fn func(s *uow.Scope) error) *uow.Scope {
	t.Helper()
	var sc *uow.Scope
	require.NoError(t, f.store.WithinTx(f.ctx, func(r uow.Repos) error {
		sc = uow.NewScope(r, f.now)
		return fn(sc)
	}))
	return sc
}

func (f *fixture) profile(t *testing.T, borrower string) *domain.Profile {
	t.Helper()
	var p *domain.Profile
	require.NoError(t, f.store.WithinTx(f.ctx, func(r uow.Repos) (err error) {
		p, err = f.reg.Get(f.ctx, r, borrower)
		return err
	}))
	return p
}

func TestRecordLifecycle(t *testing.T) {
	f := newFixture(2)
	l := &loan.Loan{ID: 1, Borrower: "alice", Amount: 1000, RepaymentAmount: 1100}

	f.run(t, func(s *uow.Scope) error { return f.reg.RecordFunding(f.ctx, s, l) })
	p := f.profile(t, "alice")
	assert.Equal(t, uint64(1), p.TotalLoansTaken)
	assert.Equal(t, uint64(1000), p.TotalAmountBorrowed)
	assert.Equal(t, uint64(domain.MaxScore), p.RepaymentScore, "no settled loans yet")
	assert.Equal(t, t0, p.FirstLoanTimestamp)

	f.now = t0 + 10
	f.run(t, func(s *uow.Scope) error { return f.reg.RecordRepayment(f.ctx, s, l) })
	f.run(t, func(s *uow.Scope) error { return f.reg.RecordFunding(f.ctx, s, l) })
	f.run(t, func(s *uow.Scope) error { return f.reg.RecordDefault(f.ctx, s, l) })

	p = f.profile(t, "alice")
	assert.Equal(t, uint64(2), p.TotalLoansTaken)
	assert.Equal(t, uint64(1), p.LoansRepaid)
	assert.Equal(t, uint64(1), p.LoansDefaulted)
	assert.Equal(t, uint64(1100), p.TotalAmountRepaid)
	assert.Equal(t, uint64(500), p.RepaymentScore)
	assert.Equal(t, t0, p.FirstLoanTimestamp, "first loan time does not move")
	assert.Equal(t, t0+10, p.LastActivityTimestamp)
	assert.False(t, p.IsBlacklisted)
}

func TestRecordDefault_AutoBlacklist(t *testing.T) {
	f := newFixture(2)
	l := &loan.Loan{Borrower: "bob", Amount: 1}

	for i := 0; i < 2; i++ {
		sc := f.run(t, func(s *uow.Scope) error { return f.reg.RecordDefault(f.ctx, s, l) })
		assert.Empty(t, sc.Events, "at or below the threshold")
	}
	assert.False(t, f.profile(t, "bob").IsBlacklisted)

	sc := f.run(t, func(s *uow.Scope) error { return f.reg.RecordDefault(f.ctx, s, l) })
	require.Len(t, sc.Events, 1)
	assert.Equal(t, event.TypeBorrowerBlacklisted, sc.Events[0].Type)
	assert.Equal(t, "defaults", sc.Events[0].Attributes["source"])
	assert.True(t, f.profile(t, "bob").IsBlacklisted)

	// already blacklisted: no repeated event
	sc = f.run(t, func(s *uow.Scope) error { return f.reg.RecordDefault(f.ctx, s, l) })
	assert.Empty(t, sc.Events)
}

func TestRecordDefault_ZeroThreshold(t *testing.T) {
	f := newFixture(0)
	f.run(t, func(s *uow.Scope) error {
		return f.reg.RecordDefault(f.ctx, s, &loan.Loan{Borrower: "carol"})
	})
	assert.True(t, f.profile(t, "carol").IsBlacklisted)
}

func TestSetBlacklist(t *testing.T) {
	f := newFixture(2)

	err := f.store.WithinTx(f.ctx, func(r uow.Repos) error {
		_, err := f.reg.SetBlacklist(f.ctx, uow.NewScope(r, f.now), "root", " ", true)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBorrower)

	var blocked bool
	require.NoError(t, f.store.WithinTx(f.ctx, func(r uow.Repos) (err error) {
		blocked, err = f.reg.IsBlacklisted(f.ctx, r, "dave")
		return err
	}))
	assert.False(t, blocked, "unknown borrowers are not blacklisted")

	sc := f.run(t, func(s *uow.Scope) error {
		_, err := f.reg.SetBlacklist(f.ctx, s, "root", "dave", true)
		return err
	})
	require.Len(t, sc.Events, 1)
	assert.Equal(t, "root", sc.Events[0].Attributes["admin"])
	p := f.profile(t, "dave")
	assert.True(t, p.IsBlacklisted)
	assert.Equal(t, uint64(domain.MaxScore), p.RepaymentScore)

	sc = f.run(t, func(s *uow.Scope) error {
		_, err := f.reg.SetBlacklist(f.ctx, s, "root", "dave", true)
		return err
	})
	assert.Empty(t, sc.Events, "unchanged flag emits nothing")

	f.run(t, func(s *uow.Scope) error {
		_, err := f.reg.SetBlacklist(f.ctx, s, "root", "dave", false)
		return err
	})
	assert.False(t, f.profile(t, "dave").IsBlacklisted)
}

func TestGet_Unknown(t *testing.T) {
	f := newFixture(2)
	err := f.store.WithinTx(f.ctx, func(r uow.Repos) error {
		_, err := f.reg.Get(f.ctx, r, "nobody")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestAddSat(t *testing.T) {
	assert.Equal(t, uint64(3), addSat(1, 2))
	assert.Equal(t, ^uint64(0), addSat(^uint64(0)-1, 5))
}
