package memory

import (
	"context"

	"aura-lend/internal/domain/collateral"
)

type tokenRepo struct{ st *state }

func (r *tokenRepo) Create(_ context.Context, t *collateral.Token) error {
	r.st.seq.token++
	t.ID = r.st.seq.token
	r.st.tokens[t.ID] = t.Clone()
	return nil
}

func (r *tokenRepo) Get(_ context.Context, tokenID uint64) (*collateral.Token, error) {
	t, ok := r.st.tokens[tokenID]
	if !ok {
		return nil, collateral.ErrTokenNotFound.On("token", tokenID, "")
	}
	out := t.Clone()
	return &out, nil
}

// GetForUpdate needs no extra locking: the store serializes transactions.
func (r *tokenRepo) GetForUpdate(ctx context.Context, tokenID uint64) (*collateral.Token, error) {
	return r.Get(ctx, tokenID)
}

func (r *tokenRepo) Save(_ context.Context, t *collateral.Token) error {
	if _, ok := r.st.tokens[t.ID]; !ok {
		return collateral.ErrTokenNotFound.On("token", t.ID, "")
	}
	r.st.tokens[t.ID] = t.Clone()
	return nil
}

func (r *tokenRepo) ListByOwner(_ context.Context, owner string) ([]collateral.Token, error) {
	out := []collateral.Token{}
	for _, id := range sortedKeys(r.st.tokens) {
		if t := r.st.tokens[id]; t.Owner == owner {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (r *tokenRepo) Count(context.Context) (uint64, error) { return uint64(len(r.st.tokens)), nil }

func (r *tokenRepo) IsAttestor(_ context.Context, address string) (bool, error) {
	_, ok := r.st.attestors[address]
	return ok, nil
}

func (r *tokenRepo) AddAttestor(_ context.Context, a *collateral.Attestor) error {
	if _, ok := r.st.attestors[a.Address]; ok {
		return collateral.ErrAttestorExists.Withf("%q", a.Address)
	}
	r.st.attestors[a.Address] = *a
	return nil
}

func (r *tokenRepo) RemoveAttestor(_ context.Context, address string) error {
	if _, ok := r.st.attestors[address]; !ok {
		return collateral.ErrAttestorNotFound.Withf("%q", address)
	}
	delete(r.st.attestors, address)
	return nil
}

func (r *tokenRepo) ListAttestors(context.Context) ([]collateral.Attestor, error) {
	out := make([]collateral.Attestor, 0, len(r.st.attestors))
	for _, addr := range sortedKeys(r.st.attestors) {
		out = append(out, r.st.attestors[addr])
	}
	return out, nil
}
