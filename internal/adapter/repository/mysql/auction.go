package mysql

import (
	"context"

	"aura-lend/internal/domain/auction"

	"gorm.io/gorm"
)

type AuctionRepository struct{ db *gorm.DB }

func NewAuctionRepository(db *gorm.DB) *AuctionRepository { return &AuctionRepository{db: db} }

func (r *AuctionRepository) Create(ctx context.Context, a *auction.Auction) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AuctionRepository) Get(ctx context.Context, auctionID uint64) (*auction.Auction, error) {
	return r.get(r.db.WithContext(ctx).Where("id = ?", auctionID), auctionID)
}

// GetForUpdate locks the auction row; two bids on one auction serialize here
// and the later one is re-validated against the earlier one's result.
func (r *AuctionRepository) GetForUpdate(ctx context.Context, auctionID uint64) (*auction.Auction, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)).Where("id = ?", auctionID), auctionID)
}

func (r *AuctionRepository) GetByLoanID(ctx context.Context, loanID uint64) (*auction.Auction, error) {
	var out auction.Auction
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		if notFound(err) {
			return nil, auction.ErrAuctionNotFound.Withf("loan %d", loanID)
		}
		return nil, err
	}
	return &out, nil
}

func (r *AuctionRepository) get(q *gorm.DB, auctionID uint64) (*auction.Auction, error) {
	var out auction.Auction
	if err := q.First(&out).Error; err != nil {
		if notFound(err) {
			return nil, auction.ErrAuctionNotFound.On("auction", auctionID, "")
		}
		return nil, err
	}
	return &out, nil
}

func (r *AuctionRepository) Save(ctx context.Context, a *auction.Auction) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AuctionRepository) ListByStatus(ctx context.Context, status auction.Status) ([]auction.Auction, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []auction.Auction{}
	return out, q.Find(&out).Error
}

func (r *AuctionRepository) CountByStatus(ctx context.Context) (map[auction.Status]uint64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&auction.Auction{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[auction.Status]uint64, len(rows))
	for _, row := range rows {
		out[auction.Status(row.Status)] = row.N
	}
	return out, nil
}

func (r *AuctionRepository) AddBid(ctx context.Context, b *auction.Bid) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AuctionRepository) ListBids(ctx context.Context, auctionID uint64) ([]auction.Bid, error) {
	out := []auction.Bid{}
	err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).Order("id ASC").Find(&out).Error
	return out, err
}
