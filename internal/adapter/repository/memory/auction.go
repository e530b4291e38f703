package memory

import (
	"context"
	"slices"

	"aura-lend/internal/domain/auction"
)

type auctionRepo struct{ st *state }

func (r *auctionRepo) Create(_ context.Context, a *auction.Auction) error {
	for _, cur := range r.st.auctions {
		if cur.LoanID == a.LoanID {
			return auction.ErrAuctionExists.On("auction", cur.ID, string(cur.Status))
		}
	}
	r.st.seq.auction++
	a.ID = r.st.seq.auction
	r.st.auctions[a.ID] = *a
	return nil
}

func (r *auctionRepo) Get(_ context.Context, auctionID uint64) (*auction.Auction, error) {
	a, ok := r.st.auctions[auctionID]
	if !ok {
		return nil, auction.ErrAuctionNotFound.On("auction", auctionID, "")
	}
	return &a, nil
}

func (r *auctionRepo) GetForUpdate(ctx context.Context, auctionID uint64) (*auction.Auction, error) {
	return r.Get(ctx, auctionID)
}

func (r *auctionRepo) GetByLoanID(_ context.Context, loanID uint64) (*auction.Auction, error) {
	for _, id := range sortedKeys(r.st.auctions) {
		if a := r.st.auctions[id]; a.LoanID == loanID {
			return &a, nil
		}
	}
	return nil, auction.ErrAuctionNotFound.Withf("loan %d", loanID)
}

func (r *auctionRepo) Save(_ context.Context, a *auction.Auction) error {
	if _, ok := r.st.auctions[a.ID]; !ok {
		return auction.ErrAuctionNotFound.On("auction", a.ID, "")
	}
	r.st.auctions[a.ID] = *a
	return nil
}

func (r *auctionRepo) ListByStatus(_ context.Context, status auction.Status) ([]auction.Auction, error) {
	out := []auction.Auction{}
	for _, id := range sortedKeys(r.st.auctions) {
		if a := r.st.auctions[id]; status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *auctionRepo) CountByStatus(context.Context) (map[auction.Status]uint64, error) {
	out := map[auction.Status]uint64{}
	for _, a := range r.st.auctions {
		out[a.Status]++
	}
	return out, nil
}

func (r *auctionRepo) AddBid(_ context.Context, b *auction.Bid) error {
	r.st.seq.bid++
	b.ID = r.st.seq.bid
	r.st.bids[b.AuctionID] = append(r.st.bids[b.AuctionID], *b)
	return nil
}

func (r *auctionRepo) ListBids(_ context.Context, auctionID uint64) ([]auction.Bid, error) {
	out := slices.Clone(r.st.bids[auctionID])
	if out == nil {
		out = []auction.Bid{}
	}
	return out, nil
}
