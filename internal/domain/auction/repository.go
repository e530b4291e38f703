package auction

import "context"

type Repository interface {
	Create(ctx context.Context, a *Auction) error
	Get(ctx context.Context, auctionID uint64) (*Auction, error)
	// GetForUpdate reads the auction and holds it until the transaction ends.
	GetForUpdate(ctx context.Context, auctionID uint64) (*Auction, error)
	GetByLoanID(ctx context.Context, loanID uint64) (*Auction, error)
	Save(ctx context.Context, a *Auction) error
	ListByStatus(ctx context.Context, status Status) ([]Auction, error)
	CountByStatus(ctx context.Context) (map[Status]uint64, error)

	AddBid(ctx context.Context, b *Bid) error
	ListBids(ctx context.Context, auctionID uint64) ([]Bid, error)
}
