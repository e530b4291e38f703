// Package collateral is the registry of collateral tokens and the attestors
// allowed to vouch for their valuations.
package collateral

import (
	"context"
	"errors"
	"strings"

	domain "aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/uow"
)

type Registry struct{}

func NewRegistry() *Registry { return &Registry{} }

// Mint creates an unattested token owned by owner.
func (g *Registry) Mint(ctx context.Context, s *uow.Scope, owner, valuationHash, metadataRef string) (*domain.Token, error) {
	owner = strings.TrimSpace(owner)
	valuationHash = strings.TrimSpace(valuationHash)
	if owner == "" {
		return nil, domain.ErrInvalidInput.Withf("owner is required")
	}
	if valuationHash == "" {
		return nil, domain.ErrInvalidInput.Withf("valuation hash is required")
	}
	t := &domain.Token{
		Owner:         owner,
		ValuationHash: valuationHash,
		MetadataRef:   metadataRef,
		CreatedAt:     s.Now,
	}
	if err := s.Tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeCollateralMinted).
		WithUint("token_id", t.ID).
		With("owner", t.Owner).
		With("valuation_hash", t.ValuationHash))
	return t, nil
}

// Attest marks the token's valuation as vouched for. It succeeds once per
// token; later calls fail with AlreadyAttested and leave the token attested.
func (g *Registry) Attest(ctx context.Context, s *uow.Scope, attestor string, tokenID uint64) (*domain.Token, error) {
	ok, err := s.Tokens.IsAttestor(ctx, attestor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthorized.Withf("%q", attestor)
	}
	t, err := s.Tokens.GetForUpdate(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if t.IsAttested {
		return nil, domain.ErrAlreadyAttested.On("token", t.ID, "attested")
	}
	t.IsAttested = true
	t.Attestor = attestor
	t.AttestedAt = s.Now
	if err := s.Tokens.Save(ctx, t); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeCollateralAttested).
		WithUint("token_id", t.ID).
		With("attestor", attestor).
		WithInt("attested_at", s.Now))
	return t, nil
}

// AuthorizeBorrower lets the owner name one other address that may borrow
// against the token. An empty borrower revokes the authorization.
func (g *Registry) AuthorizeBorrower(ctx context.Context, s *uow.Scope, owner string, tokenID uint64, borrower string) (*domain.Token, error) {
	t, err := s.Tokens.GetForUpdate(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if t.Owner != owner {
		return nil, domain.ErrNotOwner.On("token", t.ID, "")
	}
	if t.IsLocked() {
		return nil, domain.ErrTokenAlreadyLocked.On("token", t.ID, "locked")
	}
	borrower = strings.TrimSpace(borrower)
	if borrower == owner {
		borrower = ""
	}
	t.ApprovedBorrower = borrower
	if err := s.Tokens.Save(ctx, t); err != nil {
		return nil, err
	}
	s.Emit(event.New(event.TypeCollateralAuthorized).
		WithUint("token_id", t.ID).
		With("owner", owner).
		With("borrower", borrower))
	return t, nil
}

// Lock binds the token to loanID. Only the loan manager calls it.
func (g *Registry) Lock(ctx context.Context, s *uow.Scope, tokenID, loanID uint64) error {
	t, err := s.Tokens.GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if t.IsLocked() {
		return domain.ErrTokenAlreadyLocked.On("token", t.ID, "locked")
	}
	t.LockedByLoanID = &loanID
	return s.Tokens.Save(ctx, t)
}

// Unlock releases the token after its loan is repaid.
func (g *Registry) Unlock(ctx context.Context, s *uow.Scope, tokenID uint64) error {
	t, err := s.Tokens.GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if !t.IsLocked() {
		return domain.ErrTokenNotLocked.On("token", t.ID, "unlocked")
	}
	t.LockedByLoanID = nil
	return s.Tokens.Save(ctx, t)
}

// TransferOwnership hands the token to newOwner during auction settlement. It
// is refused unless the token is still held by a defaulted loan. The lock and
// any borrower authorization are cleared.
func (g *Registry) TransferOwnership(ctx context.Context, s *uow.Scope, tokenID uint64, newOwner, reason string) error {
	if strings.TrimSpace(newOwner) == "" {
		return domain.ErrInvalidInput.Withf("new owner is required")
	}
	t, err := s.Tokens.GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if !t.IsLocked() {
		return domain.ErrNotTransferable.On("token", t.ID, "unlocked")
	}
	l, err := s.Loans.Get(ctx, *t.LockedByLoanID)
	if err != nil {
		return err
	}
	if l.Status != loan.StatusDefaulted {
		return domain.ErrNotTransferable.On("token", t.ID, string(l.Status))
	}
	prev := t.Owner
	t.Owner = newOwner
	t.LockedByLoanID = nil
	t.ApprovedBorrower = ""
	if err := s.Tokens.Save(ctx, t); err != nil {
		return err
	}
	s.Effect(effect.Token(prev, newOwner, t.ID, reason))
	s.Emit(event.New(event.TypeCollateralTransfer).
		WithUint("token_id", t.ID).
		With("from", prev).
		With("to", newOwner))
	return nil
}

func (g *Registry) Get(ctx context.Context, r uow.Repos, tokenID uint64) (*domain.Token, error) {
	return r.Tokens.Get(ctx, tokenID)
}

// ByOwner lists the ids of the tokens owned by owner.
func (g *Registry) ByOwner(ctx context.Context, r uow.Repos, owner string) ([]uint64, error) {
	tokens, err := r.Tokens.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(tokens))
	for _, t := range tokens {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (g *Registry) TotalMinted(ctx context.Context, r uow.Repos) (uint64, error) {
	return r.Tokens.Count(ctx)
}

// AddAttestor registers address. Callers check the admin capability.
func (g *Registry) AddAttestor(ctx context.Context, s *uow.Scope, admin, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.ErrInvalidInput.Withf("attestor address is required")
	}
	ok, err := s.Tokens.IsAttestor(ctx, address)
	if err != nil {
		return err
	}
	if ok {
		return domain.ErrAttestorExists.Withf("%q", address)
	}
	if err := s.Tokens.AddAttestor(ctx, &domain.Attestor{Address: address, AddedBy: admin, AddedAt: s.Now}); err != nil {
		return err
	}
	s.Emit(event.New(event.TypeAttestorAdded).With("attestor", address).With("admin", admin))
	return nil
}

func (g *Registry) RemoveAttestor(ctx context.Context, s *uow.Scope, admin, address string) error {
	if err := s.Tokens.RemoveAttestor(ctx, address); err != nil {
		return err
	}
	s.Emit(event.New(event.TypeAttestorRemoved).With("attestor", address).With("admin", admin))
	return nil
}

// EnsureAttestor registers address unless it already is one.
func (g *Registry) EnsureAttestor(ctx context.Context, s *uow.Scope, admin, address string) error {
	err := g.AddAttestor(ctx, s, admin, address)
	if errors.Is(err, domain.ErrAttestorExists) {
		return nil
	}
	return err
}
