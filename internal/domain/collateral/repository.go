package collateral

import "context"

type Repository interface {
	Create(ctx context.Context, t *Token) error
	Get(ctx context.Context, tokenID uint64) (*Token, error)
	// GetForUpdate reads the token and holds it until the transaction ends.
	GetForUpdate(ctx context.Context, tokenID uint64) (*Token, error)
	Save(ctx context.Context, t *Token) error
	ListByOwner(ctx context.Context, owner string) ([]Token, error)
	Count(ctx context.Context) (uint64, error)

	IsAttestor(ctx context.Context, address string) (bool, error)
	AddAttestor(ctx context.Context, a *Attestor) error
	RemoveAttestor(ctx context.Context, address string) error
	ListAttestors(ctx context.Context) ([]Attestor, error)
}
