package reputation

import "context"

type Repository interface {
	Get(ctx context.Context, borrower string) (*Profile, error)
	GetForUpdate(ctx context.Context, borrower string) (*Profile, error)
	// Save inserts or replaces the profile.
	Save(ctx context.Context, p *Profile) error
	CountBlacklisted(ctx context.Context) (uint64, error)
}
