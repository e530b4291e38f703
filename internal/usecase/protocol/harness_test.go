package protocol

import (
	"context"
	"testing"

	"aura-lend/internal/adapter/repository/memory"
	"aura-lend/internal/testutil/eventmock"

	"github.com/stretchr/testify/require"
)

const (
	t0        = int64(1_700_000_000)
	admin     = "root"
	appraiser = "appraiser"
	day       = int64(86400)
)

type harness struct {
	ctx   context.Context
	store *memory.Store
	clock *FixedClock
	rec   *eventmock.Recorder
	svc   *Service
}

func newHarness(t *testing.T, tweak ...func(p *Policy)) *harness {
	t.Helper()
	p := DefaultPolicy()
	for _, fn := range tweak {
		fn(&p)
	}
	h := &harness{
		ctx:   context.Background(),
		store: memory.New(),
		clock: &FixedClock{T: t0},
		rec:   &eventmock.Recorder{},
	}
	h.svc = NewService(New(p, NewAdminSet(admin)), h.store, WithClock(h.clock), WithEmitter(h.rec))
	require.NoError(t, h.svc.SeedAttestors(h.ctx, admin, []string{appraiser}))
	return h
}

func (h *harness) exec(t *testing.T, cmd Command) Result {
	t.Helper()
	res, err := h.svc.Execute(h.ctx, cmd)
	require.NoError(t, err, "%s", cmd.Name())
	return res
}

func (h *harness) deposit(t *testing.T, addr string, amount uint64) {
	t.Helper()
	_, err := h.svc.Deposit(h.ctx, admin, addr, amount)
	require.NoError(t, err)
}

func (h *harness) balance(t *testing.T, addr string) uint64 {
	t.Helper()
	bal, err := h.svc.Balance(h.ctx, addr)
	require.NoError(t, err)
	return bal
}

func (h *harness) attestedToken(t *testing.T, owner string) uint64 {
	t.Helper()
	id := h.exec(t, Mint{Owner: owner, ValuationHash: "0xabc", MetadataRef: "ipfs://appraisal"}).ID
	h.exec(t, Attest{Attestor: appraiser, TokenID: id})
	return id
}

// fundedLoan opens and funds a loan, depositing the principal for lender.
func (h *harness) fundedLoan(t *testing.T, borrower, lender string, amount, bps uint64, dur int64) uint64 {
	t.Helper()
	tokenID := h.attestedToken(t, borrower)
	loanID := h.exec(t, CreateRequest{
		Borrower: borrower, TokenID: tokenID, Amount: amount, InterestRateBps: bps, DurationSecs: dur,
	}).ID
	h.deposit(t, lender, amount)
	h.exec(t, Fund{Lender: lender, LoanID: loanID})
	return loanID
}
