// Package protocol ties the registries, the loan manager and the auction
// engine into one command dispatcher. Apply is pure with respect to the
// ledger: it returns the fund transfers a command needs and Service carries
// them out inside the same transaction.
package protocol

import (
	"context"
	"strings"

	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/uow"
	"aura-lend/internal/usecase/auction"
	"aura-lend/internal/usecase/collateral"
	"aura-lend/internal/usecase/loan"
	"aura-lend/internal/usecase/reputation"
)

// Result of one command. ID names the entity the command created or acted
// on: the token for collateral commands, the loan for loan commands, the new
// auction for MarkDefault and the new bid for PlaceBid.
type Result struct {
	Command string          `json:"command"`
	ID      uint64          `json:"id,omitempty"`
	Effects []effect.Effect `json:"effects"`
	Events  []event.Event   `json:"-"`
}

type Protocol struct {
	Tokens   *collateral.Registry
	Loans    *loan.Manager
	Auctions *auction.Engine
	Profiles *reputation.Registry

	caps     Capabilities
	reserved map[string]struct{}
}

func New(p Policy, caps Capabilities) *Protocol {
	if caps == nil {
		caps = NewAdminSet()
	}
	tokens := collateral.NewRegistry()
	profiles := reputation.NewRegistry(p.Reputation)
	auctions := auction.NewEngine(tokens, p.Auction)
	return &Protocol{
		Tokens:   tokens,
		Profiles: profiles,
		Loans:    loan.NewManager(tokens, profiles, p.Repay),
		Auctions: auctions,
		caps:     caps,
		reserved: map[string]struct{}{auctions.Policy().Escrow: {}},
	}
}

// IsAdmin never grants a reserved address, even if configured as an admin.
func (p *Protocol) IsAdmin(address string) bool {
	return !p.IsReserved(address) && p.caps.IsAdmin(address)
}

// IsReserved reports whether address is an account the protocol itself holds.
func (p *Protocol) IsReserved(address string) bool {
	_, ok := p.reserved[strings.TrimSpace(address)]
	return ok
}

// actors lists the addresses cmd acts for or hands an asset to. Callers of
// the permissionless MarkDefault, EndAuction and Settle move nothing and are
// not listed.
func actors(cmd Command) []string {
	switch c := cmd.(type) {
	case Mint:
		return []string{c.Owner}
	case Attest:
		return []string{c.Attestor}
	case AuthorizeBorrower:
		return []string{c.Owner, c.Borrower}
	case AddAttestor:
		return []string{c.Admin, c.Address}
	case RemoveAttestor:
		return []string{c.Admin}
	case CreateRequest:
		return []string{c.Borrower}
	case Fund:
		return []string{c.Lender}
	case Repay:
		return []string{c.Payer}
	case PlaceBid:
		return []string{c.Bidder}
	case SetBlacklist:
		return []string{c.Admin, c.Borrower}
	}
	return nil
}

// Apply validates cmd against the state behind r and applies it at now.
func (p *Protocol) Apply(ctx context.Context, r uow.Repos, now int64, cmd Command) (Result, error) {
	for _, a := range actors(cmd) {
		if p.IsReserved(a) {
			return Result{}, ErrReservedAddress.Withf("%s as %q", cmd.Name(), a)
		}
	}
	s := uow.NewScope(r, now)
	id, err := p.dispatch(ctx, s, cmd)
	if err != nil {
		return Result{}, err
	}
	return Result{Command: cmd.Name(), ID: id, Effects: s.Effects, Events: s.Events}, nil
}

func (p *Protocol) dispatch(ctx context.Context, s *uow.Scope, cmd Command) (uint64, error) {
	switch c := cmd.(type) {
	case Mint:
		t, err := p.Tokens.Mint(ctx, s, c.Owner, c.ValuationHash, c.MetadataRef)
		if err != nil {
			return 0, err
		}
		return t.ID, nil
	case Attest:
		t, err := p.Tokens.Attest(ctx, s, c.Attestor, c.TokenID)
		if err != nil {
			return 0, err
		}
		return t.ID, nil
	case AuthorizeBorrower:
		t, err := p.Tokens.AuthorizeBorrower(ctx, s, c.Owner, c.TokenID, c.Borrower)
		if err != nil {
			return 0, err
		}
		return t.ID, nil
	case AddAttestor:
		if !p.IsAdmin(c.Admin) {
			return 0, ErrNotAdmin.Withf("%q", c.Admin)
		}
		return 0, p.Tokens.AddAttestor(ctx, s, c.Admin, c.Address)
	case RemoveAttestor:
		if !p.IsAdmin(c.Admin) {
			return 0, ErrNotAdmin.Withf("%q", c.Admin)
		}
		return 0, p.Tokens.RemoveAttestor(ctx, s, c.Admin, c.Address)
	case CreateRequest:
		l, err := p.Loans.CreateRequest(ctx, s, loan.CreateRequestInput{
			Borrower:        c.Borrower,
			TokenID:         c.TokenID,
			Amount:          c.Amount,
			InterestRateBps: c.InterestRateBps,
			DurationSecs:    c.DurationSecs,
		})
		if err != nil {
			return 0, err
		}
		return l.ID, nil
	case Fund:
		l, err := p.Loans.Fund(ctx, s, c.Lender, c.LoanID)
		if err != nil {
			return 0, err
		}
		return l.ID, nil
	case Repay:
		l, err := p.Loans.Repay(ctx, s, c.Payer, c.LoanID)
		if err != nil {
			return 0, err
		}
		return l.ID, nil
	case MarkDefault:
		l, err := p.Loans.MarkDefault(ctx, s, c.Caller, c.LoanID)
		if err != nil {
			return 0, err
		}
		a, err := p.Auctions.StartFor(ctx, s, l)
		if err != nil {
			return 0, err
		}
		return a.ID, nil
	case PlaceBid:
		b, err := p.Auctions.PlaceBid(ctx, s, c.Bidder, c.AuctionID, c.Amount)
		if err != nil {
			return 0, err
		}
		return b.ID, nil
	case EndAuction:
		a, err := p.Auctions.End(ctx, s, c.Caller, c.AuctionID)
		if err != nil {
			return 0, err
		}
		return a.ID, nil
	case Settle:
		a, err := p.Auctions.Settle(ctx, s, c.Caller, c.AuctionID)
		if err != nil {
			return 0, err
		}
		return a.ID, nil
	case SetBlacklist:
		if !p.IsAdmin(c.Admin) {
			return 0, ErrNotAdmin.Withf("%q", c.Admin)
		}
		_, err := p.Profiles.SetBlacklist(ctx, s, c.Admin, c.Borrower, c.Blacklisted)
		return 0, err
	}
	return 0, ErrUnknownCommand.Withf("%T", cmd)
}
