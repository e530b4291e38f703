package memory

import (
	"context"

	"aura-lend/internal/domain/reputation"
)

type profileRepo struct{ st *state }

func (r *profileRepo) Get(_ context.Context, borrower string) (*reputation.Profile, error) {
	p, ok := r.st.profiles[borrower]
	if !ok {
		return nil, reputation.ErrProfileNotFound.Withf("%q", borrower)
	}
	return &p, nil
}

func (r *profileRepo) GetForUpdate(ctx context.Context, borrower string) (*reputation.Profile, error) {
	return r.Get(ctx, borrower)
}

func (r *profileRepo) Save(_ context.Context, p *reputation.Profile) error {
	r.st.profiles[p.Borrower] = *p
	return nil
}

func (r *profileRepo) CountBlacklisted(context.Context) (uint64, error) {
	var n uint64
	for _, p := range r.st.profiles {
		if p.IsBlacklisted {
			n++
		}
	}
	return n, nil
}
