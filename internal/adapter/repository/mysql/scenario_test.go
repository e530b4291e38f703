package mysql

import (
	"context"
	"testing"

	"aura-lend/internal/domain/auction"
	loanDomain "aura-lend/internal/domain/loan"
	auctionuc "aura-lend/internal/usecase/auction"
	"aura-lend/internal/usecase/protocol"
)

// Runs a loan through default, auction and settlement against the gorm
// repositories so every write path shares one sqlite transaction.
func TestGormUoW_DefaultAuctionSettle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	clock := &protocol.FixedClock{T: 1_700_000_000}
	svc := protocol.NewService(
		protocol.New(protocol.DefaultPolicy(), protocol.NewAdminSet("root")),
		NewGormUoW(db),
		protocol.WithClock(clock),
	)

	exec := func(cmd protocol.Command) protocol.Result {
		t.Helper()
		res, err := svc.Execute(ctx, cmd)
		if err != nil {
			t.Fatalf("%s: %v", cmd.Name(), err)
		}
		return res
	}
	deposit := func(addr string, amount uint64) {
		t.Helper()
		if _, err := svc.Deposit(ctx, "root", addr, amount); err != nil {
			t.Fatalf("deposit %s: %v", addr, err)
		}
	}
	balance := func(addr string) uint64 {
		t.Helper()
		bal, err := svc.Balance(ctx, addr)
		if err != nil {
			t.Fatalf("balance %s: %v", addr, err)
		}
		return bal
	}

	if err := svc.SeedAttestors(ctx, "root", []string{"appraiser"}); err != nil {
		t.Fatalf("seed attestors: %v", err)
	}
	tokenID := exec(protocol.Mint{Owner: "alice", ValuationHash: "0xabc"}).ID
	exec(protocol.Attest{Attestor: "appraiser", TokenID: tokenID})
	loanID := exec(protocol.CreateRequest{
		Borrower: "alice", TokenID: tokenID, Amount: 1000, InterestRateBps: 1000, DurationSecs: 86400,
	}).ID
	deposit("bob", 1000)
	exec(protocol.Fund{Lender: "bob", LoanID: loanID})

	clock.Advance(86400 + 1)
	auctionID := exec(protocol.MarkDefault{Caller: "keeper", LoanID: loanID}).ID
	deposit("carol", 1100)
	deposit("dave", 1200)
	exec(protocol.PlaceBid{Bidder: "carol", AuctionID: auctionID, Amount: 1100})
	exec(protocol.PlaceBid{Bidder: "dave", AuctionID: auctionID, Amount: 1200})
	if got := balance("carol"); got != 1100 {
		t.Fatalf("outbid bidder not refunded: %d", got)
	}

	clock.Advance(auctionuc.DefaultDurationSecs)
	exec(protocol.Settle{Caller: "anyone", AuctionID: auctionID})

	if got := balance("bob"); got != 1100 {
		t.Fatalf("lender balance = %d, want 1100", got)
	}
	if got := balance("alice"); got != 1100 {
		t.Fatalf("borrower balance = %d, want principal plus surplus 1100", got)
	}
	if got := balance(auctionuc.DefaultEscrow); got != 0 {
		t.Fatalf("escrow not drained: %d", got)
	}

	tok, err := svc.Token(ctx, tokenID)
	if err != nil || tok.Owner != "dave" || tok.IsLocked() {
		t.Fatalf("token after settle: %v %+v", err, tok)
	}
	l, err := svc.Loan(ctx, loanID)
	if err != nil || l.Status != loanDomain.StatusDefaulted {
		t.Fatalf("loan after settle: %v %+v", err, l)
	}
	a, err := svc.Auction(ctx, auctionID)
	if err != nil || a.Status != auction.StatusSettled {
		t.Fatalf("auction after settle: %v %+v", err, a)
	}
	p, err := svc.Profile(ctx, "alice")
	if err != nil || p.LoansDefaulted != 1 {
		t.Fatalf("profile after settle: %v %+v", err, p)
	}
}
