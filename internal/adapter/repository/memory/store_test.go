package memory

import (
	"context"
	"errors"
	"testing"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/errs"
	"aura-lend/internal/domain/ledger"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.WithinTx(ctx, func(r uow.Repos) error {
		return r.Tokens.Create(ctx, &collateral.Token{Owner: "alice", ValuationHash: "h1"})
	}))

	sentinel := errors.New("boom")
	err := st.WithinTx(ctx, func(r uow.Repos) error {
		tok, err := r.Tokens.Get(ctx, 1)
		require.NoError(t, err)
		id := uint64(9)
		tok.LockedByLoanID = &id
		require.NoError(t, r.Tokens.Save(ctx, tok))
		require.NoError(t, r.Tokens.Create(ctx, &collateral.Token{Owner: "bob", ValuationHash: "h2"}))
		require.NoError(t, r.Ledger.Credit(ctx, "bob", 50))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	require.NoError(t, st.WithinTx(ctx, func(r uow.Repos) error {
		tok, err := r.Tokens.Get(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, tok.LockedByLoanID, "rolled back lock must not leak")
		n, _ := r.Tokens.Count(ctx)
		assert.Equal(t, uint64(1), n)
		bal, _ := r.Ledger.Balance(ctx, "bob")
		assert.Zero(t, bal)

		// the sequence rolled back too
		next := &collateral.Token{Owner: "carol", ValuationHash: "h3"}
		require.NoError(t, r.Tokens.Create(ctx, next))
		assert.Equal(t, uint64(2), next.ID)
		return nil
	}))
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.WithinTx(ctx, func(r uow.Repos) error {
		l := &loan.Loan{Borrower: "alice", TokenID: 1, Amount: 10, Status: loan.StatusRequested}
		require.NoError(t, r.Loans.Create(ctx, l))
		got, err := r.Loans.Get(ctx, l.ID)
		require.NoError(t, err)
		got.Status = loan.StatusFunded
		again, _ := r.Loans.Get(ctx, l.ID)
		assert.Equal(t, loan.StatusRequested, again.Status)
		return nil
	}))
}

func TestStore_NotFoundKinds(t *testing.T) {
	ctx := context.Background()
	st := New()
	_ = st.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Tokens.Get(ctx, 1)
		assert.ErrorIs(t, err, collateral.ErrTokenNotFound)
		_, err = r.Loans.GetForUpdate(ctx, 1)
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
		_, err = r.Auctions.GetByLoanID(ctx, 1)
		assert.ErrorIs(t, err, auction.ErrAuctionNotFound)
		_, err = r.Profiles.Get(ctx, "nobody")
		assert.ErrorIs(t, err, reputation.ErrProfileNotFound)
		assert.Equal(t, errs.NotFound, errs.KindOf(err))
		return nil
	})
}

func TestStore_Listings(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.WithinTx(ctx, func(r uow.Repos) error {
		for _, s := range []loan.Status{loan.StatusRequested, loan.StatusFunded, loan.StatusRequested} {
			require.NoError(t, r.Loans.Create(ctx, &loan.Loan{Borrower: "alice", Status: s}))
		}
		require.NoError(t, r.Loans.Create(ctx, &loan.Loan{Borrower: "bob", Status: loan.StatusRepaid}))

		req, _ := r.Loans.ListByStatus(ctx, loan.StatusRequested)
		require.Len(t, req, 2)
		assert.Equal(t, []uint64{1, 3}, []uint64{req[0].ID, req[1].ID})

		all, _ := r.Loans.ListByStatus(ctx, "")
		assert.Len(t, all, 4)

		mine, _ := r.Loans.ListByBorrower(ctx, "bob")
		assert.Len(t, mine, 1)

		counts, _ := r.Loans.CountByStatus(ctx)
		assert.Equal(t, uint64(2), counts[loan.StatusRequested])
		assert.Equal(t, uint64(1), counts[loan.StatusRepaid])

		require.NoError(t, r.Auctions.Create(ctx, &auction.Auction{LoanID: 2, Status: auction.StatusActive}))
		err := r.Auctions.Create(ctx, &auction.Auction{LoanID: 2, Status: auction.StatusActive})
		assert.ErrorIs(t, err, auction.ErrAuctionExists)

		require.NoError(t, r.Auctions.AddBid(ctx, &auction.Bid{AuctionID: 1, Bidder: "x", Amount: 5}))
		require.NoError(t, r.Auctions.AddBid(ctx, &auction.Bid{AuctionID: 1, Bidder: "y", Amount: 6}))
		bids, _ := r.Auctions.ListBids(ctx, 1)
		require.Len(t, bids, 2)
		assert.Equal(t, "y", bids[1].Bidder)
		empty, _ := r.Auctions.ListBids(ctx, 99)
		assert.NotNil(t, empty)
		return nil
	}))
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.WithinTx(ctx, func(r uow.Repos) error {
		require.NoError(t, r.Ledger.Credit(ctx, "alice", 100))
		require.NoError(t, r.Ledger.Transfer(ctx, "alice", "bob", 60))

		a, _ := r.Ledger.Balance(ctx, "alice")
		b, _ := r.Ledger.Balance(ctx, "bob")
		assert.Equal(t, uint64(40), a)
		assert.Equal(t, uint64(60), b)

		err := r.Ledger.Transfer(ctx, "alice", "bob", 41)
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
		assert.Equal(t, errs.EffectFailure, errs.KindOf(err))

		assert.ErrorIs(t, r.Ledger.Transfer(ctx, "alice", "alice", 1), ledger.ErrInvalidTransfer)
		assert.ErrorIs(t, r.Ledger.Transfer(ctx, "alice", "bob", 0), ledger.ErrInvalidTransfer)
		return nil
	}))
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := New().WithinTx(ctx, func(uow.Repos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
